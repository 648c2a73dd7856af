package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/motion/pkg/adapters/memory"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunFrameStoreContract(t, store)
}

func TestMemoryStore_SaveKeepsCopy(t *testing.T) {
	store := memory.NewStore()
	frame := &domain.Frame{SessionID: "s", Elements: []domain.ElementFrame{{Class: "a"}}}
	require.NoError(t, store.Save(context.Background(), frame))

	frame.Elements[0].Class = "changed"
	loaded, err := store.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Elements[0].Class)
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	store := memory.NewStore()
	assert.Error(t, store.Save(context.Background(), &domain.Frame{}))
}

func TestMemoryStore_ListSorted(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, store.Save(ctx, &domain.Frame{SessionID: id}))
	}
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
