package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/models"
)

func newAuthFixture(t *testing.T, accessTTL time.Duration) (AuthService, UserService) {
	t.Helper()
	store, err := docstore.Open(filepath.Join(t.TempDir(), "auth.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	users := models.NewUserModel(store, logger.NewNop())
	userService := NewUserService(logger.NewNop(), users)
	authService := NewAuthService(
		logger.NewNop(),
		users,
		NewMemoryRevocations(),
		"access-secret",
		"refresh-secret",
		accessTTL,
		7*24*time.Hour,
	)
	return authService, userService
}

func TestSignInIssuesTwoDistinctVerifiableTokens(t *testing.T) {
	ctx := context.Background()
	auth, usersvc := newAuthFixture(t, time.Hour)

	created, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	userID := created[docstore.IDField].(string)

	res, err := auth.SignIn(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.AccessToken == res.RefreshToken {
		t.Fatalf("expected two distinct tokens, got %q / %q", res.AccessToken, res.RefreshToken)
	}
	if res.User["email"] != "ada@example.com" {
		t.Fatalf("user projection: %v", res.User)
	}
	if _, ok := res.User["passwordHash"]; ok {
		t.Fatalf("password hash leaked in projection: %v", res.User)
	}

	claims, err := auth.VerifyAccessToken(res.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims == nil || claims.UserID != userID {
		t.Fatalf("claims: %+v, want user id %s", claims, userID)
	}

	// refresh token is signed with a different secret and must not verify
	// as an access token
	if _, err := auth.VerifyAccessToken(res.RefreshToken); err == nil {
		t.Fatal("refresh token verified with access secret")
	}
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	auth, usersvc := newAuthFixture(t, time.Hour)

	if _, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, wrongPassword := auth.SignIn(ctx, "ada@example.com", "wrong")
	_, unknownEmail := auth.SignIn(ctx, "nobody@example.com", "hunter22")

	for _, err := range []error{wrongPassword, unknownEmail} {
		var ae *apierr.Error
		if !errors.As(err, &ae) || ae.Kind != apierr.KindAuth {
			t.Fatalf("expected auth error, got %v", err)
		}
	}
	if wrongPassword.Error() != "Invalid credentials" || unknownEmail.Error() != wrongPassword.Error() {
		t.Fatalf("messages must match: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
	}
}

func TestVerifyAccessTokenNullCases(t *testing.T) {
	ctx := context.Background()
	auth, usersvc := newAuthFixture(t, -time.Minute) // already expired when issued

	if _, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	res, err := auth.SignIn(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	cases := map[string]string{
		"absent":    "",
		"malformed": "not.a.jwt",
		"expired":   res.AccessToken,
	}
	for name, token := range cases {
		claims, err := auth.VerifyAccessToken(token)
		if err != nil {
			t.Fatalf("%s: expected nil error, got %v", name, err)
		}
		if claims != nil {
			t.Fatalf("%s: expected nil claims, got %+v", name, claims)
		}
	}
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	ctx := context.Background()
	auth, usersvc := newAuthFixture(t, time.Hour)

	created, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	res, err := auth.SignIn(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	accessToken, err := auth.RefreshAccessToken(res.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	claims, err := auth.VerifyAccessToken(accessToken)
	if err != nil || claims == nil {
		t.Fatalf("minted access token did not verify: claims=%v err=%v", claims, err)
	}
	if claims.UserID != created[docstore.IDField].(string) {
		t.Fatalf("minted token bound to wrong user: %s", claims.UserID)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	auth, usersvc := newAuthFixture(t, time.Hour)

	if _, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	res, err := auth.SignIn(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	auth.Logout(res.RefreshToken)
	auth.Logout(res.RefreshToken) // idempotent

	_, err = auth.RefreshAccessToken(res.RefreshToken)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Kind != apierr.KindAuth {
		t.Fatalf("expected auth error after logout, got %v", err)
	}
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	_, usersvc := newAuthFixture(t, time.Hour)

	if _, err := usersvc.CreateUser(ctx, "Ada", "ada@example.com", "pw"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := usersvc.CreateUser(ctx, "Imposter", "ada@example.com", "pw2")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Kind != apierr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
