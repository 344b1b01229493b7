package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Subscriber is one Telegram user receiving daily calendar broadcasts.
type Subscriber struct {
	TelegramUserID int64     `db:"telegram_user_id"`
	ChatID         int64     `db:"chat_id"`
	Username       *string   `db:"username"`
	FirstName      string    `db:"first_name"`
	LastName       *string   `db:"last_name"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// UserStore manages the bot's subscriber list.
type UserStore struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// NewUserStore creates a user store over the given connection pool.
func NewUserStore(db *sqlx.DB, log *zap.SugaredLogger) *UserStore {
	return &UserStore{db: db, log: log}
}

// Upsert inserts or refreshes a subscriber. Re-subscribing reactivates a
// previously unsubscribed user.
func (s *UserStore) Upsert(ctx context.Context, sub Subscriber) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO telegram_users (telegram_user_id, chat_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_user_id) DO UPDATE SET
			chat_id    = EXCLUDED.chat_id,
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			is_active  = TRUE,
			updated_at = NOW()`,
		sub.TelegramUserID, sub.ChatID, sub.Username, sub.FirstName, sub.LastName,
	)
	if err != nil {
		return fmt.Errorf("upserting subscriber %d: %w", sub.TelegramUserID, err)
	}
	s.log.Infow("subscriber upserted", "telegram_user_id", sub.TelegramUserID)
	return nil
}

// SetActive toggles a subscriber's active flag. Unknown users report
// ErrNotFound.
func (s *UserStore) SetActive(ctx context.Context, telegramUserID int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE telegram_users
		SET is_active = $1, updated_at = NOW()
		WHERE telegram_user_id = $2`,
		active, telegramUserID,
	)
	if err != nil {
		return fmt.Errorf("updating subscriber %d: %w", telegramUserID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating subscriber %d: %w", telegramUserID, err)
	}
	if affected == 0 {
		return fmt.Errorf("subscriber %d: %w", telegramUserID, ErrNotFound)
	}
	return nil
}

// ActiveUsers returns all active subscribers in subscription order.
func (s *UserStore) ActiveUsers(ctx context.Context) ([]Subscriber, error) {
	var out []Subscriber
	err := s.db.SelectContext(ctx, &out, `
		SELECT telegram_user_id, chat_id, username, first_name, last_name,
		       is_active, created_at, updated_at
		FROM telegram_users
		WHERE is_active
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("fetching active subscribers: %w", err)
	}
	return out, nil
}

// ByChatID looks a subscriber up by chat. Absent chats report ErrNotFound.
func (s *UserStore) ByChatID(ctx context.Context, chatID int64) (*Subscriber, error) {
	var sub Subscriber
	err := s.db.GetContext(ctx, &sub, `
		SELECT telegram_user_id, chat_id, username, first_name, last_name,
		       is_active, created_at, updated_at
		FROM telegram_users
		WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chat %d: %w", chatID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching subscriber for chat %d: %w", chatID, err)
	}
	return &sub, nil
}
