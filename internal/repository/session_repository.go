package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SessionRepository stores session blobs in PostgreSQL and implements
// fiber.Storage.
type SessionRepository struct {
	db *sql.DB

	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionRepository creates a SessionRepository. When gcInterval is
// positive, expired rows are deleted on that interval until Close.
func NewSessionRepository(db *sql.DB, gcInterval time.Duration) *SessionRepository {
	r := &SessionRepository{db: db, done: make(chan struct{})}
	if gcInterval > 0 {
		go r.gcLoop(gcInterval)
	}
	return r
}

func (r *SessionRepository) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			n, err := r.DeleteExpired(context.Background())
			if err != nil {
				slog.Warn("session gc failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("session gc removed expired rows", "count", n)
			}
		}
	}
}

// DeleteExpired removes rows whose expiry has passed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// GetWithContext returns nil, nil when the key is missing or expired.
func (r *SessionRepository) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var data []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT data FROM sessions
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return data, nil
}

func (r *SessionRepository) Get(key string) ([]byte, error) {
	return r.GetWithContext(context.Background(), key)
}

// SetWithContext upserts the session. Zero exp stores it without expiry.
func (r *SessionRepository) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	var expiresAt sql.NullTime
	if exp > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(exp), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, key, val, expiresAt)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Set(key string, val []byte, exp time.Duration) error {
	return r.SetWithContext(context.Background(), key, val, exp)
}

func (r *SessionRepository) DeleteWithContext(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(key string) error {
	return r.DeleteWithContext(context.Background(), key)
}

func (r *SessionRepository) ResetWithContext(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) Reset() error {
	return r.ResetWithContext(context.Background())
}

// Close stops the gc loop. The *sql.DB is owned by the caller.
func (r *SessionRepository) Close() error {
	r.stopOnce.Do(func() { close(r.done) })
	return nil
}
