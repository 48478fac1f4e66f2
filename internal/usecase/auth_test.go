// internal/usecase/auth_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/usecase"
)

type authEnv struct {
	users   *fakeUserRepo
	tokens  *fakeTokenStore
	manager *jwt.Manager

	register usecase.RegisterHandler
	login    usecase.LoginHandler
	refresh  usecase.RefreshHandler
	resolve  usecase.ResolveHandler
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	log := testLogger(t)

	manager, err := jwt.New(jwt.Config{Secret: "test-secret", AccessTTL: time.Minute})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	users := newFakeUserRepo()
	tokens := newFakeTokenStore(time.Hour)
	resolve := usecase.NewResolveHandler(manager, users, tokens, log)

	return &authEnv{
		users:    users,
		tokens:   tokens,
		manager:  manager,
		register: usecase.NewRegisterHandler(users, log),
		login:    usecase.NewLoginHandler(users, tokens, manager, log),
		refresh:  usecase.NewRefreshHandler(resolve, manager, log),
		resolve:  resolve,
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := env.register.Handle(ctx, "alice", "other")
	if !errors.Is(err, usecase.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestRegister_EmptyInput(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "", "s3cret"); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Errorf("empty username: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.register.Handle(ctx, "alice", ""); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Errorf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	user, err := env.register.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := env.login.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	// Refresh-токен должен быть зарегистрирован в хранилище.
	found, err := env.tokens.Exists(ctx, user.ID, pair.RefreshToken)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !found {
		t.Error("refresh token must be registered on login")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := env.login.Handle(ctx, "alice", "wrong")
	if !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	env := newAuthEnv(t)

	_, err := env.login.Handle(context.Background(), "ghost", "whatever")
	if !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolve_AccessToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := env.login.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := env.resolve.Handle(ctx, pair.AccessToken, jwt.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("resolved wrong user: %q", user.Username)
	}
}

func TestResolve_WrongTokenType(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := env.login.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Access-токен на месте refresh и наоборот.
	if _, err := env.resolve.Handle(ctx, pair.AccessToken, jwt.RefreshToken); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Errorf("access as refresh: expected ErrUnauthorized, got %v", err)
	}
	if _, err := env.resolve.Handle(ctx, pair.RefreshToken, jwt.AccessToken); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Errorf("refresh as access: expected ErrUnauthorized, got %v", err)
	}
}

func TestResolve_GarbageToken(t *testing.T) {
	env := newAuthEnv(t)

	_, err := env.resolve.Handle(context.Background(), "not-a-jwt", jwt.AccessToken)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_Success(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := env.login.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := env.refresh.Handle(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatal("expected new access token")
	}

	// Новый access-токен рабочий, а старый refresh остаётся действителен.
	if _, err := env.resolve.Handle(ctx, access, jwt.AccessToken); err != nil {
		t.Errorf("new access token must resolve: %v", err)
	}
	if _, err := env.refresh.Handle(ctx, pair.RefreshToken); err != nil {
		t.Errorf("refresh token must survive the exchange: %v", err)
	}
}

func TestRefresh_UnregisteredToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	user, err := env.register.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Подпись валидна, но токен не был выдан через login:
	// хранилище о нём не знает.
	forged, err := env.manager.Refresh(user.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := env.refresh.Handle(ctx, forged); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_WithAccessToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.register.Handle(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := env.login.Handle(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := env.refresh.Handle(ctx, pair.AccessToken); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
