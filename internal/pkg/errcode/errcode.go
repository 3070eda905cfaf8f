package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrStorage
	ErrEmbedding
	ErrSearch
	ErrGeneration
	ErrTooMany
	ErrInternal
	ErrVectorIndex
	ErrCatalogSync
)
