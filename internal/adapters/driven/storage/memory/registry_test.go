package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

func testDoc(id string) *domain.Document {
	text := "content of " + id
	return &domain.Document{
		ID:           id,
		Filename:     id + ".txt",
		FileType:     domain.FileTypeText,
		Status:       domain.StatusPending,
		OriginalText: &text,
	}
}

func TestSaveAndGet(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, testDoc("d1")))

	got, err := reg.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1.txt", got.Filename)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestGet_NotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, testDoc("d1")))

	got, err := reg.Get(ctx, "d1")
	require.NoError(t, err)
	got.Status = domain.StatusError

	again, err := reg.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestList_InsertionOrder(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, reg.Save(ctx, testDoc(fmt.Sprintf("d%d", i))))
	}

	// Updating an existing document must not move it.
	updated := testDoc("d1")
	updated.Status = domain.StatusProcessed
	require.NoError(t, reg.Save(ctx, updated))

	docs, err := reg.List(ctx)
	require.NoError(t, err)

	require.Len(t, docs, 5)
	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("d%d", i), doc.ID)
	}
	assert.Equal(t, domain.StatusProcessed, docs[1].Status)
}

func TestConcurrentSaves(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(i int) {
			_ = reg.Save(ctx, testDoc(fmt.Sprintf("d%d", i)))
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	docs, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 10)
}
