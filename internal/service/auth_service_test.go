package service

import (
	"context"
	"errors"
	"testing"

	"despesabot/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	user *models.User
	err  error
}

func (f *fakeUserStore) FindUserByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	return f.user, f.err
}

func TestCheckAuthUnlinkedIdentity(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{}, "http://localhost:3333", zap.NewNop())

	check, err := svc.CheckAuth(context.Background(), "12345")
	require.NoError(t, err)

	assert.False(t, check.IsAuthenticated)
	assert.Contains(t, check.Message, "http://localhost:3333/login/discord")
	assert.Empty(t, check.UserID)
}

func TestCheckAuthLinkedIdentity(t *testing.T) {
	user := &models.User{Name: "Ana"}
	user.ID = uuid.New()

	svc := NewAuthService(&fakeUserStore{user: user}, "http://localhost:3333", zap.NewNop())

	check, err := svc.CheckAuth(context.Background(), "12345")
	require.NoError(t, err)

	assert.True(t, check.IsAuthenticated)
	assert.Equal(t, user.ID.String(), check.UserID)
	assert.Equal(t, "Ana", check.UserName)
	assert.Empty(t, check.Message)
}

func TestCheckAuthInfrastructureFailure(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{err: errors.New("connection refused")}, "http://localhost:3333", zap.NewNop())

	_, err := svc.CheckAuth(context.Background(), "12345")
	assert.Error(t, err)
}
