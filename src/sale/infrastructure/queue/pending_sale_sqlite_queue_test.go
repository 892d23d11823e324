package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/src/sale/domain/entity"
)

func openTestQueue(t *testing.T) (*PendingSaleSQLiteQueue, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.db")
	q, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q, path
}

func TestQueue_EnqueueAndCount(t *testing.T) {
	q, _ := openTestQueue(t)
	ctx := context.Background()

	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(uuid.New(), []byte(`{"a":1}`))))
	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(uuid.New(), []byte(`{"b":2}`))))

	count, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQueue_EnqueueSameIDDoesNotDuplicate(t *testing.T) {
	q, _ := openTestQueue(t)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(id, []byte(`{"v":1}`))))
	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(id, []byte(`{"v":2}`))))

	entries, err := q.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Se conserva el snapshot original
	assert.JSONEq(t, `{"v":1}`, string(entries[0].Payload))
}

func TestQueue_DequeueAllIsFIFO(t *testing.T) {
	q, _ := openTestQueue(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(id, []byte(`{}`))))
	}

	entries, err := q.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, ids[i], e.ID)
		assert.Equal(t, entity.PendingSaleStatusPending, e.Status)
	}
}

func TestQueue_MarkSyncedRemovesEntry(t *testing.T) {
	q, _ := openTestQueue(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(first, []byte(`{}`))))
	require.NoError(t, q.Enqueue(ctx, entity.NewPendingSale(second, []byte(`{}`))))

	require.NoError(t, q.MarkSynced(ctx, first))

	entries, err := q.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second, entries[0].ID)

	// Marcar un ID inexistente no es error
	assert.NoError(t, q.MarkSynced(ctx, uuid.New()))
}

func TestQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")
	ctx := context.Background()

	q, err := Open(path)
	require.NoError(t, err)

	id := uuid.New()
	pending := entity.NewPendingSale(id, []byte(`{"sale_id":"x","total":"20.00"}`))
	require.NoError(t, q.Enqueue(ctx, pending))
	require.NoError(t, q.Close())

	// Reapertura simula el reinicio de la terminal
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.JSONEq(t, string(pending.Payload), string(entries[0].Payload))
	assert.Equal(t, pending.CreatedAt.UTC().Truncate(0).Unix(), entries[0].CreatedAt.Unix())
}
