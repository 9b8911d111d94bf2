package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	redrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/redis"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
)

type fakeUserStore struct {
	nextID int64
	byExt  map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byExt: map[string]model.User{}}
}

func (s *fakeUserStore) UpsertByExternalID(_ context.Context, u model.User) (model.User, error) {
	if existing, ok := s.byExt[u.ExternalID]; ok {
		existing.Email = u.Email
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		s.byExt[u.ExternalID] = existing
		return existing, nil
	}

	s.nextID++
	u.ID = s.nextID
	u.Role = enums.RoleUser
	u.CreatedAt = time.Now().UTC()
	s.byExt[u.ExternalID] = u
	return u, nil
}

func TestExchangeCreatesUserOnce(t *testing.T) {
	svc, users, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	first, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|1001", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	second, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|1001", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("second exchange: %v", err)
	}

	if first.Me.ID != second.Me.ID {
		t.Fatalf("same subject must map to one user: %d vs %d", first.Me.ID, second.Me.ID)
	}
	if len(users.byExt) != 1 {
		t.Fatalf("expected one user row, got %d", len(users.byExt))
	}
	if second.Me.Email != "b@example.com" {
		t.Fatalf("exchange should refresh profile fields, got %q", second.Me.Email)
	}
}

func TestExchangeRejectsEmptySubject(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	if _, err := svc.Exchange(context.Background(), authsvc.ExternalIdentity{Subject: "  "}); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|1001"})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshRes.RefreshToken == loginRes.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|2002"})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestLogoutAllInvalidatesEverySession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	first, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|3003"})
	if err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	second, err := svc.Exchange(ctx, authsvc.ExternalIdentity{Subject: "idp|3003"})
	if err != nil {
		t.Fatalf("second exchange: %v", err)
	}

	if err := svc.LogoutAll(ctx, first.Me.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	for i, token := range []string{first.AccessToken, second.AccessToken} {
		if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, authsvc.ErrUnauthorized) {
			t.Fatalf("session #%d should be unauthorized after logout all, got err=%v", i, err)
		}
	}
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *fakeUserStore, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	sessions := redrepo.NewSessionRepo(client)
	users := newFakeUserStore()
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, sessions, users, 45*24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, users, cleanup
}
