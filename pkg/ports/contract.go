package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractFrame(sessionID string) *domain.Frame {
	return &domain.Frame{
		SessionID: sessionID,
		Kind:      domain.KindVisibility,
		Revision:  3,
		Class:     "animated-visibility",
		Elements: []domain.ElementFrame{{
			Key:      0,
			State:    domain.Showing,
			Rendered: true,
			Class:    "animated-visibility fade-in-animation-finish",
			Style:    "--start-fade-in-opacity: 0;--finish-fade-in-opacity: 1;transition: opacity 0.2s 0s linear;",
		}},
		UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunFrameStoreContract runs a suite of tests to verify that a FrameStore
// implementation adheres to the interface contract.
func RunFrameStoreContract(t *testing.T, store FrameStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		frame := contractFrame(sessionID)

		err := store.Save(ctx, frame)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, frame.Kind, loaded.Kind)
		assert.Equal(t, frame.Revision, loaded.Revision)
		assert.Equal(t, frame.Elements, loaded.Elements)
		assert.True(t, frame.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractFrame(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Elements[0].Class = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Elements[0].Class)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractFrame(sessionID)))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, contractFrame(id1))
		_ = store.Save(ctx, contractFrame(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
