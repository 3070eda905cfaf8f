package errors

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid")
	ErrStorage   = errors.New("storage failure")
	ErrEmbedding = errors.New("embedding failed")
	ErrSearch    = errors.New("vector search failed")
	ErrTooMany   = errors.New("too many requests")
	ErrInternal  = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
