package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	ok := map[string]string{
		"06 01 02 03 04":    "+33601020304",
		"0601020304":        "+33601020304",
		"+33 1 42 68 53 00": "+33142685300",
		"+41 44 668 18 00":  "+41446681800",
		"":                  "",
	}
	for in, want := range ok {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"123", "abc", "06 01"} {
		_, err := NormalizePhone(in)
		assert.ErrorIs(t, err, ErrInvalidPhone, in)
	}
}
