// Package refvec loads reference responses of discretized transfer
// functions from YAML test-vector files.
package refvec

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Record is one reference case. Polynomials are highest degree first.
// Matrices are stored flat in column-major order.
type Record struct {
	N       int       `yaml:"n"`
	Order   int       `yaml:"order"`
	Ts      float64   `yaml:"Ts"`
	Omega   float64   `yaml:"omega"`
	Num     []float64 `yaml:"num"`
	Den     []float64 `yaml:"den"`
	YDY0    []float64 `yaml:"ydy0"`
	U       []float64 `yaml:"u"`
	Tustin  []float64 `yaml:"y_tustin"`
	Forward []float64 `yaml:"y_fwd"`
	Back    []float64 `yaml:"y_bwd"`
}

var errMalformed = errors.New("refvec: malformed record")

// Load reads and validates every record of a YAML file.
func Load(path string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse decodes and validates records from YAML content.
func Parse(content []byte) ([]Record, error) {
	var recs []Record
	if err := yaml.Unmarshal(content, &recs); err != nil {
		return nil, err
	}
	for i := range recs {
		if err := recs[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return recs, nil
}

// Validate checks that all arrays agree with N and Order.
func (r *Record) Validate() error {
	switch {
	case r.N <= 0:
		return fmt.Errorf("%w: n = %d", errMalformed, r.N)
	case r.Order < 0:
		return fmt.Errorf("%w: order = %d", errMalformed, r.Order)
	case r.Ts <= 0:
		return fmt.Errorf("%w: Ts = %v", errMalformed, r.Ts)
	case len(r.Den) != r.Order+1:
		return fmt.Errorf("%w: %d denominator coefficients for order %d", errMalformed, len(r.Den), r.Order)
	case len(r.Num) > len(r.Den):
		return fmt.Errorf("%w: numerator longer than denominator", errMalformed)
	case r.Order > 0 && len(r.YDY0) == 0:
		return fmt.Errorf("%w: no initial derivatives for order %d", errMalformed, r.Order)
	case len(r.YDY0)%max(r.Order, 1) != 0:
		return fmt.Errorf("%w: %d initial derivatives for order %d", errMalformed, len(r.YDY0), r.Order)
	}
	for name, v := range map[string][]float64{
		"u": r.U, "y_tustin": r.Tustin, "y_fwd": r.Forward, "y_bwd": r.Back,
	} {
		if len(v) != r.N {
			return fmt.Errorf("%w: %s has %d samples, want %d", errMalformed, name, len(v), r.N)
		}
	}
	return nil
}

// Channels returns the number of channels described by YDY0.
func (r *Record) Channels() int {
	if r.Order == 0 {
		return 1
	}
	return len(r.YDY0) / r.Order
}

// InitialDerivatives returns YDY0 as a channel x order matrix.
func (r *Record) InitialDerivatives() [][]float64 {
	return ColumnMajor(r.YDY0, r.Channels(), r.Order)
}

// ColumnMajor reshapes flat column-major data into a rows x cols matrix.
func ColumnMajor(flat []float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = flat[j*rows+i]
		}
	}
	return out
}
