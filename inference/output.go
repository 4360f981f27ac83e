package inference

import (
	"encoding/json"
	"io"
)

// FailureTitle is the fixed "error" value of every failure object.
const FailureTitle = "Prediction failed"

type failureBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteOutcome writes the success or failure object as a single JSON line.
func WriteOutcome(w io.Writer, out Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if out.Succeeded() {
		return enc.Encode(out.Prediction)
	}
	return enc.Encode(failureBody{Error: FailureTitle, Message: out.Failure.Err.Error()})
}

// ExitCode maps an outcome to the process exit status.
func ExitCode(out Outcome) int {
	if out.Succeeded() {
		return 0
	}
	return 1
}
