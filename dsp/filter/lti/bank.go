package lti

import (
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// bank is the per-channel recursion state of a System.
//
// Histories are stored lag-major: in[i][ch] is u[k-1-i] and out[j][ch] is
// y[k-1-j] for channel ch, so one recursion step is a handful of
// element-wise kernels over all channels. Every channel sees the same
// sequence of operations, which keeps channels numerically independent.
type bank struct {
	channels int
	in       [][]float64
	out      [][]float64
	y        []float64

	acc []float64
	tmp []float64
}

func newBank(channels, order int) bank {
	b := bank{
		channels: channels,
		in:       make([][]float64, order),
		out:      make([][]float64, order),
		y:        make([]float64, channels),
		acc:      make([]float64, channels),
		tmp:      make([]float64, channels),
	}

	for i := 0; i < order; i++ {
		b.in[i] = make([]float64, channels)
		b.out[i] = make([]float64, channels)
	}

	return b
}

func (b *bank) order() int {
	return len(b.in)
}

// load fills the histories from channel-major matrices (row per channel,
// most recent sample first). history may be nil for an all-zero output
// history.
func (b *bank) load(inputs, history [][]float64) {
	for i := range b.in {
		for ch := 0; ch < b.channels; ch++ {
			b.in[i][ch] = inputs[ch][i]
			b.out[i][ch] = 0
			if history != nil {
				b.out[i][ch] = history[ch][i]
			}
		}
	}

	if b.order() > 0 {
		copy(b.y, b.out[0])
	} else {
		core.Zero(b.y)
	}
}

// step advances every channel by one sample with input u.
func (b *bank) step(u []float64, c Coefficients) {
	vecmath.ScaleBlock(b.acc, u, c.B[0])

	for i := range b.in {
		vecmath.ScaleBlock(b.tmp, b.in[i], c.B[i+1])
		vecmath.AddBlockInPlace(b.acc, b.tmp)
	}

	for j := range b.out {
		vecmath.ScaleBlock(b.tmp, b.out[j], -c.A[j+1])
		vecmath.AddBlockInPlace(b.acc, b.tmp)
	}

	shift(b.in, u)
	shift(b.out, b.acc)
	copy(b.y, b.acc)
}

// shift drops the oldest history row and stores x as the newest one. Rows
// are rotated rather than copied.
func shift(rows [][]float64, x []float64) {
	n := len(rows)
	if n == 0 {
		return
	}

	oldest := rows[n-1]
	copy(rows[1:], rows[:n-1])
	core.CopyInto(oldest, x)
	rows[0] = oldest
}

// channelMatrix returns the history rows transposed to channel-major form.
func channelMatrix(rows [][]float64, channels int) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, len(rows))
		for i := range rows {
			out[ch][i] = rows[i][ch]
		}
	}

	return out
}

func (b bank) clone() bank {
	c := newBank(b.channels, b.order())
	for i := range b.in {
		copy(c.in[i], b.in[i])
		copy(c.out[i], b.out[i])
	}

	copy(c.y, b.y)

	return c
}
