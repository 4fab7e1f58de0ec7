package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingKey(t *testing.T) {
	m := NewMemory()

	var items []string
	found, err := m.Get(context.Background(), KeyCart, &items)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, items)
}

func TestMemory_SetThenGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, KeyNewsletter, []string{"ada@example.com"}))

	var subscribers []string
	found, err := m.Get(ctx, KeyNewsletter, &subscribers)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"ada@example.com"}, subscribers)
}

func TestMemory_OverwriteReplacesValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, KeyCart, []int{1, 2}))
	require.NoError(t, m.Set(ctx, KeyCart, []int{3}))

	var items []int
	found, err := m.Get(ctx, KeyCart, &items)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{3}, items)
}

func TestMemory_CorruptValueTreatedAsAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	// A string is valid JSON but does not decode into a slice.
	require.NoError(t, m.Set(ctx, KeyCart, "not-a-collection"))

	var items []int
	found, err := m.Get(ctx, KeyCart, &items)

	require.NoError(t, err)
	assert.False(t, found)
}
