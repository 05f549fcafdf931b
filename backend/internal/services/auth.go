package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"
	"link-graph/backend/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenIssuer   = "link-api"
	tokenAudience = "link-app"
)

// Claims is the bearer token payload
type Claims struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   graph.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a verified token resolves to
type Identity struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   graph.Role `json:"role"`
}

// AuthService issues and verifies HS256 bearer tokens for registered users
type AuthService struct {
	store     graph.UserStore
	secret    []byte
	expiresIn time.Duration
	logger    *zap.Logger
}

func NewAuthService(store graph.UserStore, secret string, expiresIn time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		secret:    []byte(secret),
		expiresIn: expiresIn,
		logger:    logger.Named("auth"),
	}
}

// Register creates or updates the account for email
func (s *AuthService) Register(ctx context.Context, email, name string, role graph.Role) (graph.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return graph.User{}, apperrors.NewInvalidArgument("A valid email is required")
	}
	if role == "" {
		role = graph.RoleUser
	}
	if role != graph.RoleUser && role != graph.RoleAdmin {
		return graph.User{}, apperrors.NewInvalidArgument("role must be admin or user")
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}

	user, err := s.store.UpsertUser(ctx, graph.User{Email: email, Name: name, Role: role, IsActive: true})
	if err != nil {
		return graph.User{}, classify(err, "User", s.logger)
	}
	return user, nil
}

// Issue signs a token for an active user and records the login time
func (s *AuthService) Issue(ctx context.Context, user graph.User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, apperrors.NewConfigMissingRequired("JWT_SECRET")
	}
	if !user.IsActive {
		return "", time.Time{}, apperrors.NewUnauthorized("User not authorized. Please contact administrator.", nil)
	}

	now := time.Now()
	expiresAt := now.Add(s.expiresIn)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternal("Failed to sign token", err)
	}

	user.LastLoginAt = &now
	if _, err := s.store.UpsertUser(ctx, user); err != nil {
		s.logger.Warn("Failed to record login time", zap.String("user_id", user.ID), zap.Error(err))
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature, issuer, audience and expiry, then that
// the user still exists and is active. The identity carries the stored role,
// not the one signed into the token.
func (s *AuthService) Verify(ctx context.Context, token string) (Identity, error) {
	if len(s.secret) == 0 {
		return Identity{}, apperrors.NewUnauthorized("Authentication is not configured", nil)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperrors.NewUnauthorized("Authorization token is required", nil)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Debug("Token rejected", zap.Error(err))
		return Identity{}, apperrors.NewUnauthorized("Invalid or expired token", err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return Identity{}, apperrors.NewUnauthorized("Invalid or expired token", err)
		}
		return Identity{}, classify(err, "User", s.logger)
	}
	if !user.IsActive {
		return Identity{}, apperrors.NewUnauthorized("Invalid or expired token", nil)
	}
	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Profile returns the account behind a verified identity
func (s *AuthService) Profile(ctx context.Context, id Identity) (graph.User, error) {
	user, err := s.store.GetUser(ctx, id.UserID)
	if err != nil {
		return graph.User{}, classify(err, "User", s.logger)
	}
	return user, nil
}

// Users lists every registered account
func (s *AuthService) Users(ctx context.Context) ([]graph.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, classify(err, "User", s.logger)
	}
	return users, nil
}
