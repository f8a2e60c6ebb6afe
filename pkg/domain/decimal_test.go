package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"  77\n", "77"},
		{"-13", "-13"},
		{"+13", "13"},
		{"66178434513578438715761814543874653487436543874654311541561516487543434873", "66178434513578438715761814543874653487436543874654311541561516487543434873"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseDecimal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestParseDecimal_Rejects(t *testing.T) {
	for _, in := range []string{"", "+", "--5", "+-5", "1_000", "0x1f", "7.5", "12a", "\x1b[31m7", "٣"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDecimal(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseDecimal_SizeLimit(t *testing.T) {
	_, err := ParseDecimal(strings.Repeat("9", MaxDecimalDigits))
	assert.NoError(t, err)

	_, err = ParseDecimal(strings.Repeat("9", MaxDecimalDigits+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseDecimals(t *testing.T) {
	ns, err := ParseDecimals("4", "13", "497")
	require.NoError(t, err)
	require.Len(t, ns, 3)
	assert.Equal(t, "497", ns[2].String())

	_, err = ParseDecimals("4", "x", "497")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
