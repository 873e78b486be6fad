package ledger

import (
	"errors"
	"fmt"
)

// ExecutionRejectedError reports that the remote ledger accepted the
// request but refused to execute it, e.g. an unsatisfied signature
// policy or a failed contract assertion. The proposal that triggered it
// stays open for further decisions.
type ExecutionRejectedError struct {
	Reason string
}

func (e *ExecutionRejectedError) Error() string {
	return fmt.Sprintf("execution rejected by remote ledger: %s", e.Reason)
}

func IsExecutionRejected(err error) bool {
	var rejected *ExecutionRejectedError
	return errors.As(err, &rejected)
}
