package search_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/aretw0/threeprimes/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	oracle := primality.NewOracle(primality.WithWitnesses(20))
	n := big.NewInt(77)

	tests := []struct {
		name    string
		triple  domain.Triple
		wantErr bool
	}{
		{"valid", domain.NewTriple(3, 3, 71), false},
		{"valid other order of search", domain.NewTriple(7, 11, 59), false},
		{"composite member", domain.NewTriple(3, 5, 69), true},
		{"wrong sum", domain.NewTriple(3, 3, 67), true},
		{"unordered", domain.NewTriple(71, 3, 3), true},
		{"even member", domain.NewTriple(2, 2, 73), true},
		{"incomplete", domain.Triple{I: big.NewInt(3)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := search.Verify(context.Background(), n, tt.triple, oracle)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
