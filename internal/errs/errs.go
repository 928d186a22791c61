package errs

import "errors"

var (
	// ErrComplaintNotFound is returned when a complaint id does not exist.
	ErrComplaintNotFound = errors.New("complaint not found")

	// ErrInvalidTransition is returned when a requested status change is not
	// allowed by the lifecycle state machine. The complaint is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateVote is returned when a voter has already voted on the
	// complaint. The vote count and priority score are left unchanged.
	ErrDuplicateVote = errors.New("voter has already voted on this complaint")

	// ErrComplaintClosed is returned when a vote targets a complaint in a
	// terminal status (resolved or rejected).
	ErrComplaintClosed = errors.New("complaint is closed")

	// ErrConflict is returned when two writers raced on the same complaint.
	// The caller should re-read the complaint and retry.
	ErrConflict = errors.New("complaint was modified concurrently")
)
