package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/models"
)

// Claims is the payload both token classes carry: the user id plus the
// registered expiry/issued-at set.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type SignInResult struct {
	User         docstore.Document `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	// VerifyAccessToken returns (nil, nil) for absent, revoked, expired, or
	// malformed tokens. Any other verification failure is an error.
	VerifyAccessToken(tokenString string) (*Claims, error)
	RefreshAccessToken(refreshToken string) (string, error)
	Logout(refreshToken string)
}

type authService struct {
	log           *logger.Logger
	users         *models.UserModel
	revoked       TokenRevocations
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	baseLog *logger.Logger,
	users *models.UserModel,
	revoked TokenRevocations,
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		log:           baseLog.With("service", "AuthService"),
		users:         users,
		revoked:       revoked,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// SignIn never distinguishes an unknown email from a bad password; both
// collapse into the same error so the endpoint cannot be used to probe for
// accounts.
func (as *authService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user by email: %w", err)
	}
	if user == nil {
		return nil, apierr.Auth("Invalid credentials")
	}
	hash, _ := user["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apierr.Auth("Invalid credentials")
	}

	userID, _ := user[docstore.IDField].(string)
	accessToken, err := as.signToken(userID, as.accessSecret, as.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := as.signToken(userID, as.refreshSecret, as.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	as.log.Info("User signed in", "user_id", userID)
	return &SignInResult{
		User:         PublicUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (as *authService) VerifyAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, nil
	}
	if as.revoked.Contains(tokenString) {
		return nil, nil
	}
	claims, err := parseToken(tokenString, as.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, nil
		}
		return nil, err
	}
	return claims, nil
}

func (as *authService) RefreshAccessToken(refreshToken string) (string, error) {
	if as.revoked.Contains(refreshToken) {
		return "", apierr.Auth("Refresh token revoked")
	}
	claims, err := parseToken(refreshToken, as.refreshSecret)
	if err != nil {
		return "", apierr.Auth("Refresh token invalid or expired")
	}
	accessToken, err := as.signToken(claims.UserID, as.accessSecret, as.accessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return accessToken, nil
}

// Logout is idempotent and purely in-memory; the refresh token is simply
// never honored again by this process.
func (as *authService) Logout(refreshToken string) {
	as.revoked.Add(refreshToken)
}

func (as *authService) signToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalid")
	}
	return &claims, nil
}

// PublicUser projects a stored user document to the fields safe to return
// to clients.
func PublicUser(user docstore.Document) docstore.Document {
	if user == nil {
		return nil
	}
	return docstore.Document{
		docstore.IDField: user[docstore.IDField],
		"name":           user["name"],
		"email":          user["email"],
	}
}
