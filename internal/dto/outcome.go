package dto

// OutcomeStatus categorizes the single user-facing result of an operation.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeInfo    OutcomeStatus = "info" // no-op, e.g. deleting something already gone
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is the human-readable result every mutating operation reports.
type Outcome struct {
	Estado  OutcomeStatus `json:"estado"`
	Mensaje string        `json:"mensaje"`
}

func Success(msg string) Outcome { return Outcome{Estado: OutcomeSuccess, Mensaje: msg} }
func Info(msg string) Outcome    { return Outcome{Estado: OutcomeInfo, Mensaje: msg} }
func Failure(msg string) Outcome { return Outcome{Estado: OutcomeError, Mensaje: msg} }
