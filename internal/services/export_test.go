package services

import "time"

// SetClock fixa o relógio usado nas validações de data
func (s *ClaimService) SetClock(now func() time.Time) {
	s.now = now
}
