package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Triple is a candidate decomposition n = I + J + K with I <= J <= K.
type Triple struct {
	I *big.Int
	J *big.Int
	K *big.Int
}

// NewTriple builds a Triple from native integers.
func NewTriple(i, j, k int64) Triple {
	return Triple{I: big.NewInt(i), J: big.NewInt(j), K: big.NewInt(k)}
}

// Sum returns I + J + K.
func (t Triple) Sum() *big.Int {
	sum := new(big.Int).Add(t.I, t.J)
	return sum.Add(sum, t.K)
}

// Equal reports whether both triples hold the same values.
func (t Triple) Equal(o Triple) bool {
	return t.I.Cmp(o.I) == 0 && t.J.Cmp(o.J) == 0 && t.K.Cmp(o.K) == 0
}

// String renders the triple space-separated ("i j k"), the format written by the CLI.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.I, t.J, t.K)
}

// MarshalJSON encodes the triple as an array of decimal strings, so values beyond
// float64 precision survive JSON clients.
func (t Triple) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{t.I.String(), t.J.String(), t.K.String()})
}

// UnmarshalJSON decodes an array of three decimal strings.
func (t *Triple) UnmarshalJSON(data []byte) error {
	var parts [3]string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("triple: %w", err)
	}
	vals := make([]*big.Int, 3)
	for idx, s := range parts {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("triple: %q is not an integer", s)
		}
		vals[idx] = v
	}
	t.I, t.J, t.K = vals[0], vals[1], vals[2]
	return nil
}
