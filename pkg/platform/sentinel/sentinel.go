package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and remote clients
// return these (optionally wrapped) so the pipeline can branch on them without
// inspecting messages.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store, cache or remote directory
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
