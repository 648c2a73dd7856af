package flush_test

import (
	"context"
	"testing"

	"github.com/aretw0/motion/pkg/adapters/flush"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestImmediate(t *testing.T) {
	assert.NoError(t, flush.Immediate{}.EnsureStylesWereApplied(context.Background(), "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, flush.Immediate{}.EnsureStylesWereApplied(ctx, "a"), context.Canceled)
}

func TestFunc(t *testing.T) {
	var got ports.ElementRef
	f := flush.Func(func(_ context.Context, ref ports.ElementRef) error {
		got = ref
		return nil
	})
	assert.NoError(t, f.EnsureStylesWereApplied(context.Background(), "card"))
	assert.Equal(t, ports.ElementRef("card"), got)
}
