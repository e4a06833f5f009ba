package domain

import "errors"

var (
	ErrFetch             = errors.New("fetch failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrSchemaDrift       = errors.New("schema drift")
	ErrInvalidDate       = errors.New("invalid date")
)

// MalformedResponseError describes why an upstream payload could not be turned into a Batch.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string { return "malformed response: " + e.Reason }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// SchemaDriftError reports the difference between a file header and an incoming batch.
type SchemaDriftError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaDriftError) Error() string {
	return "schema drift: header mismatch with batch fields"
}

func (e *SchemaDriftError) Is(target error) bool { return target == ErrSchemaDrift }
