// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and validates the JWT access/refresh pairs used by
// the API. Refresh tokens are tracked in Valkey by their JTI with automatic
// TTL expiry, so a refresh token works exactly once: consuming it deletes
// the entry (rotation), and anything not present is treated as revoked.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// keyPrefix namespaces refresh-token keys in Valkey.
	keyPrefix = "refresh:"

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// ErrInvalidToken covers every rejection reason exposed to callers:
// bad signature, expired, wrong token type, or a refresh token that was
// already consumed or revoked. Callers translate it to 401.
var ErrInvalidToken = errors.New("token: invalid or expired")

// Claims is the JWT payload for both token types. Subject carries the
// user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair as returned to clients.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service signs, validates, and rotates tokens.
type Service struct {
	client     *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a token service backed by the given Valkey client.
func NewService(client *redis.Client, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		client:     client,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a fresh access/refresh pair for the user and registers the
// refresh token's JTI in Valkey with the refresh TTL.
func (s *Service) Issue(ctx context.Context, user *models.User) (Pair, error) {
	now := time.Now()

	access, err := s.IssueAccess(user)
	if err != nil {
		return Pair{}, err
	}

	refreshID := uuid.NewString()
	refresh, err := s.sign(&Claims{
		Type: typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        refreshID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	if err != nil {
		return Pair{}, err
	}

	if err := s.client.Set(ctx, keyPrefix+refreshID, user.ID.String(), s.refreshTTL).Err(); err != nil {
		return Pair{}, fmt.Errorf("token store refresh: %w", err)
	}

	return Pair{Access: access, Refresh: refresh}, nil
}

// IssueAccess creates only the short-lived access token. It never touches
// the refresh store.
func (s *Service) IssueAccess(user *models.User) (string, error) {
	now := time.Now()
	return s.sign(&Claims{
		Email: user.Email,
		Type:  typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
}

// ParseAccess validates an access token and returns its claims.
func (s *Service) ParseAccess(raw string) (*Claims, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != typeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Consume validates a refresh token, removes it from Valkey (rotation),
// and returns the user ID it was issued for. A token that has already been
// consumed, or whose Valkey entry expired, is rejected.
func (s *Service) Consume(ctx context.Context, raw string) (uuid.UUID, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != typeRefresh {
		return uuid.Nil, ErrInvalidToken
	}

	stored, err := s.client.GetDel(ctx, keyPrefix+claims.ID).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("token consume: %w", err)
	}

	userID, err := uuid.Parse(stored)
	if err != nil || userID.String() != claims.Subject {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// sign produces a compact HS256 JWT for the claims.
func (s *Service) sign(claims *Claims) (string, error) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token sign: %w", err)
	}
	return raw, nil
}

// parse validates the signature and registered claims.
func (s *Service) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
