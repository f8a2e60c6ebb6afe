package domain

import "fmt"

// Primality is the verdict of a probabilistic primality test.
// There is deliberately no "prime" value: ProbablyPrime carries an error bound of
// at most 4^-witnesses and must not be treated as proof.
type Primality int

const (
	// Composite is a definite verdict: a witness disproved primality.
	Composite Primality = iota
	// ProbablyPrime means no witness disproved primality.
	ProbablyPrime
)

func (p Primality) String() string {
	switch p {
	case Composite:
		return "composite"
	case ProbablyPrime:
		return "probably_prime"
	default:
		return fmt.Sprintf("Primality(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Primality) MarshalText() ([]byte, error) {
	switch p {
	case Composite, ProbablyPrime:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown primality %d", int(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Primality) UnmarshalText(text []byte) error {
	switch string(text) {
	case "composite":
		*p = Composite
	case "probably_prime":
		*p = ProbablyPrime
	default:
		return fmt.Errorf("unknown primality %q", text)
	}
	return nil
}
