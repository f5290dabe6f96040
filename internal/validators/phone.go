package validators

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion é a região usada para números sem indicativo (+33).
const DefaultRegion = "FR"

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone valida o número e devolve no formato E.164.
// Vazio continua vazio: o telefone é opcional no cadastro.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
