package service

import "time"

// Recorder receives pipeline measurements. *metric.Registry implements it.
type Recorder interface {
	IncUpdate(source string)
	AddEvents(kind string, n int)
	IncCounterReset()
	ObserveMerge(d time.Duration)
	IncAlert(kind string)
	RecordRegistryCall(op, result string)
}

type nopRecorder struct{}

func (nopRecorder) IncUpdate(string)                  {}
func (nopRecorder) AddEvents(string, int)             {}
func (nopRecorder) IncCounterReset()                  {}
func (nopRecorder) ObserveMerge(time.Duration)        {}
func (nopRecorder) IncAlert(string)                   {}
func (nopRecorder) RecordRegistryCall(string, string) {}
