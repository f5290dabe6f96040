package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

// Slot é um intervalo [Start, End) em minutos numa data.
type Slot struct {
	Date  string
	Start int
	End   int
}

func NewSlot(date, startTime, endTime string) (Slot, error) {
	start, err := ToMinutes(startTime)
	if err != nil {
		return Slot{}, err
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Date: date, Start: start, End: end}, nil
}

// Overlaps testa intervalos semiabertos. Extremidades encostadas não se sobrepõem.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// FirstConflict devolve o primeiro candidato que bloqueia o slot, ou nil.
func FirstConflict(slot Slot, candidates []models.Appointment, excludeID *uuid.UUID) *models.Appointment {
	for i := range candidates {
		c := &candidates[i]
		if c.Date != slot.Date || Status(c.Status) == StatusCancelled {
			continue
		}
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if Overlaps(slot.Start, slot.End, c.StartMinute, c.EndMinute) {
			return c
		}
	}
	return nil
}

type CandidateFinder interface {
	ListConflictCandidates(
		ctx context.Context,
		date string,
		excludeID *uuid.UUID,
	) ([]models.Appointment, error)
}

type ConflictChecker struct {
	finder CandidateFinder
}

func NewConflictChecker(finder CandidateFinder) *ConflictChecker {
	return &ConflictChecker{finder: finder}
}

func (c *ConflictChecker) HasConflict(
	ctx context.Context,
	date string,
	startTime string,
	endTime string,
	excludeID *uuid.UUID,
) (bool, error) {

	slot, err := NewSlot(date, startTime, endTime)
	if err != nil {
		return false, err
	}

	candidates, err := c.finder.ListConflictCandidates(ctx, date, excludeID)
	if err != nil {
		return false, err
	}

	return FirstConflict(slot, candidates, excludeID) != nil, nil
}
