package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/liftco/backend/internal/config"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
	"go.uber.org/zap"
)

// AuthService validates caller session credentials (HS256 bearer tokens issued
// by the identity provider) and resolves them to an app profile.
type AuthService struct {
	repo      profileRepo
	jwtSecret []byte
	issuer    string
	audience  string
	logger    *zap.Logger
}

type profileRepo interface {
	GetUserByAuthID(ctx context.Context, authID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	LinkAuthID(ctx context.Context, userID, authID string) error
}

type authClaims struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(repo profileRepo, cfg config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(cfg.JWTSecret),
		issuer:    cfg.JWTIssuer,
		audience:  cfg.JWTAudience,
		logger:    logger,
	}, nil
}

func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrUnauthenticated
	}

	return &model.AuthUser{
		AuthID: claims.Subject,
		Email:  claims.Email,
		Phone:  claims.Phone,
	}, nil
}

// IssueAccessToken signs a caller token. Production tokens come from the
// identity provider; this is used by tooling and tests sharing the secret.
func (s *AuthService) IssueAccessToken(user model.AuthUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		Email: user.Email,
		Phone: user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.AuthID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ResolveProfile finds the caller's profile by auth id, then by email, then by
// phone. A profile found by contact is linked to the auth id for next time.
func (s *AuthService) ResolveProfile(ctx context.Context, caller *model.AuthUser) (*model.User, error) {
	if caller == nil || caller.AuthID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByAuthID(ctx, caller.AuthID)
	if err == nil {
		return user, nil
	}
	if !db.IsNoRows(err) {
		return nil, storeError("load profile", err)
	}

	var byContact *model.User
	if caller.Email != "" {
		byContact, err = s.repo.GetUserByEmail(ctx, caller.Email)
		if err != nil && !db.IsNoRows(err) {
			return nil, storeError("load profile by email", err)
		}
	}
	if byContact == nil && caller.Phone != "" {
		byContact, err = s.repo.GetUserByPhone(ctx, caller.Phone)
		if err != nil && !db.IsNoRows(err) {
			return nil, storeError("load profile by phone", err)
		}
	}
	if byContact == nil {
		return nil, ErrProfileNotFound
	}

	// Linking is bookkeeping; the caller is already identified.
	if byContact.AuthID == nil || *byContact.AuthID != caller.AuthID {
		if err := s.repo.LinkAuthID(ctx, byContact.ID, caller.AuthID); err != nil {
			s.logger.Warn("failed to link auth id to profile", zap.String("user_id", byContact.ID), zap.Error(err))
		} else {
			authID := caller.AuthID
			byContact.AuthID = &authID
		}
	}
	return byContact, nil
}

var _ profileRepo = (*db.Postgres)(nil)
