package store

import "context"

// Store bundles the persistence handles the services need, plus the
// lifecycle of the underlying connection or file.
type Store interface {
	Identities() IdentityStore
	Progress() ProgressStore
	Activities() ActivityStore

	// Ping checks that the backend can serve requests.
	Ping(ctx context.Context) error

	// Close releases the backend. Calls after Close fail with ErrUnavailable.
	Close() error
}
