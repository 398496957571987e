package library

import "errors"

var (
	// ErrNotFound reports a series or issue id with no record behind it.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateIssue reports an issue path that is already indexed.
	// During rescans this is the expected steady state; callers treat it
	// as "already indexed", not as a failure. Series name collisions never
	// surface because GetOrCreateSeries absorbs them.
	ErrDuplicateIssue = errors.New("issue already indexed")
	// ErrInvalidArgument reports a caller-supplied value the store refuses
	// to persist, such as a negative reading position.
	ErrInvalidArgument = errors.New("invalid argument")
)
