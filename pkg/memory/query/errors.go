package query

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityMismatch is matched by every *MismatchError.
	ErrIdentityMismatch = errors.New("identity mismatch")

	// ErrBatchLengthMismatch is returned by UpsertBatchQuery under BatchStrict.
	ErrBatchLengthMismatch = errors.New("keys and embeddings length mismatch")

	// ErrInvalidIdentity is returned when a factory is built from an incomplete identity.
	ErrInvalidIdentity = errors.New("invalid index identity")
)

// MismatchError reports a collection name that differs from the bound index.
type MismatchError struct {
	Requested string
	Bound     string
}

func (err *MismatchError) Error() string {
	return fmt.Sprintf(
		"query factory: collection %q requested but factory is bound to index %q",
		err.Requested, err.Bound,
	)
}

// Is lets errors.Is match ErrIdentityMismatch.
func (err *MismatchError) Is(target error) bool {
	return target == ErrIdentityMismatch
}
