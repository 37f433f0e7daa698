package hw

// Status is the state of a run.
type Status int

// A run is Running until a terminal module reports Success or Failure.
const (
	Running Status = iota
	Success
	Failure
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Outcome is the verdict of a run. Diff carries a human readable dump when
// the run fails validation.
type Outcome struct {
	Status  Status
	Message string
	Diff    string
}

// Succeed creates a successful outcome.
func Succeed(msg string) Outcome {
	return Outcome{Status: Success, Message: msg}
}

// Fail creates a failed outcome.
func Fail(msg, diff string) Outcome {
	return Outcome{Status: Failure, Message: msg, Diff: diff}
}

// Finished tells if the outcome ends the run.
func (o Outcome) Finished() bool {
	return o.Status != Running
}
