package ledger

import "fmt"

// FetchError reports that loading the snapshot from the repository failed.
type FetchError struct {
	UserId int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch transactions of user %d: %v", e.UserId, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError reports that the repository rejected an append or a remove.
type WriteError struct {
	Op            string
	TransactionId string
	Err           error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s transaction %s: %v", e.Op, e.TransactionId, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ValidationError reports a transaction that failed its shape checks. It is
// raised before any repository call.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

const (
	opAppend = "append"
	opRemove = "remove"
)
