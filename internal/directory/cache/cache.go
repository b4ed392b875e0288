package cache

import "context"

// Cache remembers which subscriber ID a normalized CPF resolved to, so
// repeated runs skip remote lookups for recently-seen professionals. Entries
// expire; the platform remains the source of truth.
type Cache interface {
	// Find returns the cached subscriber ID for cpf, or
	// sentinel.ErrNotFound when the entry is absent or expired.
	Find(ctx context.Context, cpf string) (string, error)

	// Save records the resolution of cpf to subscriberID.
	Save(ctx context.Context, cpf, subscriberID string) error
}
