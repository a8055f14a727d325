// Package mocks provides function-field mocks of the store, auth, and
// service interfaces. Each mock falls back to a simple default when its
// function field is nil.
//
//	identities := mocks.NewMockIdentityStore()
//	identities.GetByEmailFn = func(ctx context.Context, email string) (*domain.Identity, error) {
//	    return nil, store.ErrUnavailable
//	}
package mocks
