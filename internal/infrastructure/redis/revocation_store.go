// Package redis almacena la revocación de sesiones en Redis para que todas las instancias
// de la API vean los logout y las bajas de usuario.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/pkg/config"
)

var _ repository.SessionRevocationStore = (*RevocationStore)(nil)

const defaultPrefix = "farmlink:revoked:"

// RevocationStore implementación de SessionRevocationStore sobre Redis.
// Claves: <prefix>token:<jti> y <prefix>user:<userID> (unix nanos), ambas con TTL.
type RevocationStore struct {
	client *goredis.Client
	prefix string
}

// NewClient crea el cliente Redis con la configuración de la app.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// NewRevocationStore construye el store sobre un cliente existente.
func NewRevocationStore(client *goredis.Client, keyPrefix string) *RevocationStore {
	if keyPrefix == "" {
		keyPrefix = defaultPrefix
	}
	return &RevocationStore{client: client, prefix: keyPrefix}
}

func (s *RevocationStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.tokenKey(tokenID), "1", ttl).Err()
}

func (s *RevocationStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.tokenKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RevocationStore) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	return s.client.Set(ctx, s.userKey(userID), strconv.FormatInt(at.UnixNano(), 10), ttl).Err()
}

func (s *RevocationStore) UserRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	v, err := s.client.Get(ctx, s.userKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	nanos, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(0, nanos), true, nil
}

// Ping comprueba la conexión (health check).
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra la conexión a Redis.
func (s *RevocationStore) Close() error {
	return s.client.Close()
}

func (s *RevocationStore) tokenKey(id string) string { return s.prefix + "token:" + id }
func (s *RevocationStore) userKey(id string) string  { return s.prefix + "user:" + id }
