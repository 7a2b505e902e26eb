package safe_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/keepsake-lab/keepsake/pkg/utils/safe"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("closes and swallows the error", func(t *testing.T) {
		c := &closer{err: goerr.New("close failed")}
		safe.Close(ctx, c)
		gt.Bool(t, c.closed).True()
	})

	t.Run("nil closer is a no-op", func(t *testing.T) {
		safe.Close(ctx, nil)
	})
}
