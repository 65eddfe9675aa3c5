package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ConectaTel/conecta_api/internal/models"
)

type stubAdminStore struct {
	existing *models.AdminUser
	created  *models.AdminUser
}

func (s *stubAdminStore) GetByEmail(email string) (*models.AdminUser, error) {
	if s.existing != nil && s.existing.Email == email {
		return s.existing, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAdminStore) Create(user *models.AdminUser) error {
	s.created = user
	return nil
}

func TestEnsureAdminCreatesFirstAccount(t *testing.T) {
	store := &stubAdminStore{}
	svc := NewAdminAuthService(store)

	err := svc.EnsureAdmin("admin@conectatel.com.br", "s3nha-forte", "Administrador")

	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "admin@conectatel.com.br", store.created.Email)
	assert.Equal(t, "Administrador", store.created.Name)
	assert.True(t, store.created.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(store.created.PasswordHash), []byte("s3nha-forte")))
}

func TestEnsureAdminLeavesExistingAccountUntouched(t *testing.T) {
	store := &stubAdminStore{
		existing: &models.AdminUser{Email: "admin@conectatel.com.br", Name: "Original"},
	}
	svc := NewAdminAuthService(store)

	err := svc.EnsureAdmin("admin@conectatel.com.br", "outra-senha", "Substituto")

	require.NoError(t, err)
	assert.Nil(t, store.created)
}
