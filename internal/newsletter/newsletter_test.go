package newsletter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

func TestSubscribe(t *testing.T) {
	bus := events.New()
	m := NewManager(store.NewMemory(), bus)
	ctx := context.Background()

	var signups []string
	bus.Subscribe(events.TopicNewsletterSignup, func(payload any) {
		signups = append(signups, payload.(string))
	})

	require.NoError(t, m.Subscribe(ctx, "  Ada@Example.com "))

	assert.Equal(t, []string{"ada@example.com"}, m.Subscribers(ctx))
	assert.Equal(t, []string{"ada@example.com"}, signups)
}

func TestSubscribe_RejectsInvalidEmail(t *testing.T) {
	m := NewManager(store.NewMemory(), events.New())
	ctx := context.Background()

	assert.ErrorIs(t, m.Subscribe(ctx, "not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, m.Subscribe(ctx, ""), ErrInvalidEmail)
	assert.Empty(t, m.Subscribers(ctx))
}

func TestSubscribe_DuplicateIsInformational(t *testing.T) {
	m := NewManager(store.NewMemory(), events.New())
	ctx := context.Background()

	require.NoError(t, m.Subscribe(ctx, "ada@example.com"))

	err := m.Subscribe(ctx, "ADA@example.com")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
	assert.Len(t, m.Subscribers(ctx), 1)
}
