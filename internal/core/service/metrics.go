package service

import "time"

// Metrics receives persistence and mutation observations.
type Metrics interface {
	ObserveWrite(d time.Duration, err error)
	ObserveMutation(kind string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveWrite(time.Duration, error) {}
func (noopMetrics) ObserveMutation(string)            {}
