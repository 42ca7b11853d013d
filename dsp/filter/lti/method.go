package lti

import (
	"fmt"
	"strings"
)

// Method selects the s-to-z substitution used by [Discretize].
type Method int

const (
	// Tustin is the bilinear transform s = k(z-1)/(z+1), with k = 2/Ts or,
	// when a prewarp frequency w is set, k = w/tan(w*Ts/2).
	Tustin Method = iota
	// ForwardEuler substitutes s = (z-1)/Ts.
	ForwardEuler
	// BackwardEuler substitutes s = (z-1)/(Ts*z).
	BackwardEuler
)

// Methods lists every supported discretization method.
var Methods = []Method{Tustin, ForwardEuler, BackwardEuler}

func (m Method) String() string {
	switch m {
	case Tustin:
		return "tustin"
	case ForwardEuler:
		return "forward-euler"
	case BackwardEuler:
		return "backward-euler"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m >= Tustin && m <= BackwardEuler
}

// ParseMethod accepts the names returned by String and the short aliases
// "bilinear", "fwd", "forward", "bwd" and "backward" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tustin", "bilinear":
		return Tustin, nil
	case "forward-euler", "forward_euler", "forward", "fwd":
		return ForwardEuler, nil
	case "backward-euler", "backward_euler", "backward", "bwd":
		return BackwardEuler, nil
	}

	return 0, fmt.Errorf("lti: unknown method %q: %w", s, ErrInvalidParameter)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("lti: cannot marshal %v: %w", m, ErrInvalidParameter)
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseMethod].
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
