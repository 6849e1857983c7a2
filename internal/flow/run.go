package flow

import "time"

// StepRun is one execution attempt of a step
type StepRun struct {
	StartTimestamp time.Time  `json:"startTimestamp"`
	EndTimestamp   *time.Time `json:"endTimestamp,omitempty"`
	ExitCode       *int       `json:"exitCode,omitempty"`
	LogFile        string     `json:"logFile,omitempty"`
}

// NewStepRun starts a run at the given time
func NewStepRun(start time.Time, logFile string) *StepRun {
	return &StepRun{StartTimestamp: start, LogFile: logFile}
}

// Ended reports whether the run has an end timestamp
func (r *StepRun) Ended() bool {
	return r.EndTimestamp != nil
}

// Finish records the end of the run. A run that has already ended is left
// unchanged.
func (r *StepRun) Finish(end time.Time, exitCode int) {
	if r.Ended() {
		return
	}
	r.EndTimestamp = &end
	r.ExitCode = &exitCode
}

// Duration returns end minus start. ok is false while the run is still open.
func (r *StepRun) Duration() (d time.Duration, ok bool) {
	if r.EndTimestamp == nil {
		return 0, false
	}
	return r.EndTimestamp.Sub(r.StartTimestamp), true
}
