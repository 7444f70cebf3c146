package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Tienda-api/internal/application/cart"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/config"
)

var _ cart.SessionStore = (*SessionStore)(nil)

const (
	tabKeyPrefix = "cart:tab:"
	activeKey    = "cart:active"
)

// SessionStore persiste las pestañas del carrito en Redis como JSON con TTL:
// las pestañas sobreviven reinicios del proceso y las inactivas expiran solas.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore construye el store con la configuración de Redis.
func NewSessionStore(cfg config.RedisConfig) *SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Ping verifica la conexión (el arranque cae a memoria si falla).
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

// Save serializa la pestaña y renueva su TTL.
func (s *SessionStore) Save(ctx context.Context, session *entity.CartSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal cart session: %w", err)
	}
	if err := s.client.Set(ctx, tabKeyPrefix+session.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart session: %w", err)
	}
	return nil
}

// Delete elimina una pestaña.
func (s *SessionStore) Delete(ctx context.Context, tabID string) error {
	if err := s.client.Del(ctx, tabKeyPrefix+tabID).Err(); err != nil {
		return fmt.Errorf("delete cart session: %w", err)
	}
	return nil
}

// SaveActive guarda el id de la pestaña activa.
func (s *SessionStore) SaveActive(ctx context.Context, tabID string) error {
	if err := s.client.Set(ctx, activeKey, tabID, s.ttl).Err(); err != nil {
		return fmt.Errorf("save active tab: %w", err)
	}
	return nil
}

// LoadAll recorre las claves de pestañas (SCAN, no KEYS) y las deserializa.
// Las entradas corruptas se saltan: una pestaña irrecuperable no debe impedir
// restaurar las demás.
func (s *SessionStore) LoadAll(ctx context.Context) ([]*entity.CartSession, string, error) {
	var sessions []*entity.CartSession

	iter := s.client.Scan(ctx, 0, tabKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue // expiró entre el SCAN y el GET
		}
		if err != nil {
			return nil, "", fmt.Errorf("load cart session: %w", err)
		}
		var session entity.CartSession
		if err := json.Unmarshal([]byte(val), &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}
	if err := iter.Err(); err != nil {
		return nil, "", fmt.Errorf("scan cart sessions: %w", err)
	}

	active, err := s.client.Get(ctx, activeKey).Result()
	if err == redis.Nil {
		active = ""
	} else if err != nil {
		return nil, "", fmt.Errorf("load active tab: %w", err)
	}
	return sessions, active, nil
}
