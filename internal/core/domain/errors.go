package domain

import "errors"

var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrInvalidElectionID = errors.New("invalid election id")
	ErrElectionClosed    = errors.New("election is closed for voting")
	ErrNotEligible       = errors.New("user is not eligible to vote in this election")
	ErrAlreadyVoted      = errors.New("user has already voted")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrSelfDelegation    = errors.New("cannot delegate to yourself")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInternal          = errors.New("internal server error")
)

// ValidationError carries field-level messages for malformed input.
// It is rejected before anything is persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}
