package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	jwtpkg "github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type fakeUserRepo struct {
	byEmail map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetBySquadID(ctx context.Context, squadID string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }

func (f *fakeUserRepo) UnassignSquad(ctx context.Context, squadID string) error { return nil }

type captureObserver struct {
	events []hooks.Event
}

func (c *captureObserver) Name() string { return "capture" }

func (c *captureObserver) Handle(ctx context.Context, ev hooks.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func newTestAuthService(t *testing.T) (auth.AuthService, *captureObserver) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2boogaloo"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{byEmail: map[string]user.User{
		"member@example.com": {
			ID:           "user-1",
			Email:        "member@example.com",
			Name:         "Member",
			PasswordHash: string(hash),
			Role:         user.RoleMember,
			IsActive:     true,
		},
	}}

	observer := &captureObserver{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := jwtpkg.NewJWTService("test-secret", "15m", "168h")

	return NewAuthService(repo, jwtService, nil, hooks.NewDispatcher(logger, observer)), observer
}

func TestLoginDispatchesLoginEvent(t *testing.T) {
	svc, observer := newTestAuthService(t)

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "member@example.com",
		Password: "hunter2boogaloo",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	require.Len(t, observer.events, 1)
	ev := observer.events[0]
	assert.Equal(t, hooks.ActionLogin, ev.Action)
	assert.Equal(t, "users", ev.EntityType)
	assert.Equal(t, "user-1", ev.EntityID)
	require.NotNil(t, ev.ActorID)
	assert.Equal(t, "user-1", *ev.ActorID)
}

func TestLoginBadPasswordStaysUnaudited(t *testing.T) {
	svc, observer := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "member@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, observer.events)
}
