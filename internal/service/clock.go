package service

import "time"

// Clock supplies the current instant to every timestamping operation, so
// tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the production wall clock (UTC).
func SystemClock() Clock { return systemClock{} }
