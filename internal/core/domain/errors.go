package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCart indicates an order confirmation was attempted with an
	// empty cart. The order store must not be called in this case.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCatalogEmpty indicates a catalog source produced no items. The
	// assistant cannot operate without a menu, so loading an empty source
	// is refused. Searches over an already-loaded catalog still return
	// empty results rather than this error.
	ErrCatalogEmpty = errors.New("catalog is empty")

	// ErrCollaboratorUnavailable indicates an embedding or generation call
	// failed or timed out. Callers recover locally by falling back to
	// keyword/substring results; it is never fatal to a conversation.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	// General queries degrade to rendering raw search results.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. The catalog index cannot be built without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
