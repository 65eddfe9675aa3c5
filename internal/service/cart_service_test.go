package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConectaTel/conecta_api/internal/cache"
	"github.com/ConectaTel/conecta_api/internal/cart"
	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

type stubCartStore struct {
	entry   *cache.CartEntry
	saved   bool
	deleted bool
}

func (s *stubCartStore) Get(_ context.Context, sessionID string) (*cache.CartEntry, error) {
	if s.entry == nil {
		return &cache.CartEntry{SessionID: sessionID, Cart: cart.New()}, nil
	}
	return s.entry, nil
}

func (s *stubCartStore) Save(_ context.Context, entry *cache.CartEntry) error {
	s.entry = entry
	s.saved = true
	return nil
}

func (s *stubCartStore) Delete(_ context.Context, _ string) error {
	s.deleted = true
	return nil
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	store := &stubCartStore{}
	svc := NewCartService(store, nil, nil, nil, nil)

	order, err := svc.Checkout(context.Background(), "sess-1", 1, false, &CheckoutRequest{
		CustomerName:  "Maria Souza",
		CustomerPhone: "5511999990000",
		PersonType:    models.PersonTypePersonal,
	})

	require.ErrorIs(t, err, utils.ErrEmptyCart)
	assert.Nil(t, order)
	assert.False(t, store.deleted, "an empty cart must not be cleared by a rejected checkout")
}

func TestSetContactEmailPersistsOnEntry(t *testing.T) {
	store := &stubCartStore{}
	svc := NewCartService(store, nil, nil, nil, nil)

	err := svc.SetContactEmail(context.Background(), "sess-1", "maria@example.com")

	require.NoError(t, err)
	require.True(t, store.saved)
	assert.Equal(t, "maria@example.com", store.entry.Email)
}

func TestGetReturnsEmptyViewForNewSession(t *testing.T) {
	svc := NewCartService(&stubCartStore{}, nil, nil, nil, nil)

	view, err := svc.Get(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.TotalMonthly)
	assert.Zero(t, view.ItemCount)
}
