package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
)

func TestCanTransition(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			err := CanTransition(from, to)

			allowed := !from.IsTerminal() && to != StatusPending
			if allowed {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.Error(t, err, "%s -> %s", from, to)
			assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
		}
	}
}

func TestCanCancel(t *testing.T) {
	assert.NoError(t, CanCancel(StatusPending))
	assert.NoError(t, CanCancel(StatusConfirmed))
	assert.NoError(t, CanCancel(StatusInProgress))
	assert.True(t, httperr.IsCode(CanCancel(StatusCancelled), "invalid_state"))
	assert.True(t, httperr.IsCode(CanCancel(StatusCompleted), "invalid_state"))
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("in_progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, st)

	_, ok = ParseStatus("done")
	assert.False(t, ok)
}
