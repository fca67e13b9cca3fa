package orchestrator

import (
	"errors"
	"fmt"
)

// ErrIndexNotBuilt is the cause of a RetrievalError before the first successful Rebuild.
var ErrIndexNotBuilt = errors.New("index not built")

// RetrievalError reports a failed nearest-neighbour query.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// AnswererError reports a failed answer generation.
type AnswererError struct {
	Err error
}

func (e *AnswererError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *AnswererError) Unwrap() error {
	return e.Err
}
