package bolt

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/alfa-api/internal/store"
	berrors "go.etcd.io/bbolt"
)

// mapError translates bbolt failures into store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, berrors.ErrDatabaseNotOpen),
		errors.Is(err, berrors.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}
