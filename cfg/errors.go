package cfg

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyGraph is returned when a function has no blocks at all.
	ErrEmptyGraph = errors.New("cfg: function has no basic blocks")

	// ErrInconsistentGraph is returned when graphs, trees or edges handed
	// between analysis stages do not belong together.
	ErrInconsistentGraph = errors.New("cfg: inconsistent graph")

	// ErrCancelled is returned when an analysis stops because its context
	// was cancelled.
	ErrCancelled = errors.New("cfg: analysis cancelled")
)

// Interrupted returns an error wrapping ErrCancelled if ctx is done, and nil
// otherwise.
func Interrupted(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(ErrCancelled, err.Error())
	}
	return nil
}
