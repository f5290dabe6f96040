package appointment

import (
	"fmt"
	"regexp"
	"time"

	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

var hhmm = regexp.MustCompile(`^(([01][0-9])|(2[0-3])):[0-5][0-9]$`)

type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q, expected HH:MM", e.Value)
}

// ToMinutes converte "HH:MM" em minutos desde meia-noite.
func ToMinutes(s string) (int, error) {
	if !hhmm.MatchString(s) {
		return 0, &FormatError{Value: s}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(timezone.DateLayout, s, loc)
}

// StartInstant junta a data e o horário de início no fuso loc.
func StartInstant(date, startTime string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ToMinutes(startTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}
