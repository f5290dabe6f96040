package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:05", 545, false},
		{"14:30", 870, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:05", 0, true},
		{"12:60", 0, true},
		{"12h30", 0, true},
		{"", 0, true},
		{" 12:30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToMinutes(tt.in)
			if tt.wantErr {
				var fe *FormatError
				assert.True(t, errors.As(err, &fe))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, FormatMinutes(got))
		})
	}
}

func TestStartInstant(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	got, err := StartInstant("2025-06-01", "14:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), got.UTC())

	_, err = StartInstant("2025-13-01", "14:00", loc)
	assert.Error(t, err)

	_, err = StartInstant("2025-06-01", "25:00", loc)
	assert.Error(t, err)
}
