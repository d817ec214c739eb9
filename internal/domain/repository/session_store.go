package repository

import (
	"context"
	"time"
)

// SessionRevocationStore registra sesiones revocadas antes de su expiración natural.
// Implementaciones: Redis (multi-instancia) y memoria (una instancia / tests).
type SessionRevocationStore interface {
	// RevokeToken revoca un token por su jti hasta que expire (ttl).
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeUser invalida todos los tokens del usuario emitidos antes de at.
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	UserRevokedAt(ctx context.Context, userID string) (at time.Time, ok bool, err error)
}
