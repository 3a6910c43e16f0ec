package services

import (
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

// DateLayout é o formato de data usado na entrada e na saída (DD/MM/AAAA)
const DateLayout = "02/01/2006"

// ParseDate interpreta datas em DD/MM/AAAA ou AAAA-MM-DD
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidDate
}

// FormatDate formata t em DD/MM/AAAA
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// afterToday indica se a data civil de d é posterior ao dia corrente de now
func afterToday(d, now time.Time) bool {
	return dateOnly(&d).After(*dateOnly(&now))
}
