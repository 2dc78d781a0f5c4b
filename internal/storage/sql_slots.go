package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLSlots implements Slots on the canvas_slots table.
type SQLSlots struct {
	db *DB
}

func NewSQLSlots(db *DB) *SQLSlots {
	return &SQLSlots{db: db}
}

func (s *SQLSlots) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.db.Conn().QueryRowContext(ctx,
		s.db.bind(`SELECT payload FROM canvas_slots WHERE slot_key = ?`), key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return payload, true, nil
}

func (s *SQLSlots) Set(ctx context.Context, key, payload string) error {
	var query string
	switch s.db.dialect {
	case dialectMySQL:
		query = `INSERT INTO canvas_slots (slot_key, payload, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`
	default:
		query = `INSERT INTO canvas_slots (slot_key, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(slot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	}
	if _, err := s.db.Conn().ExecContext(ctx, s.db.bind(query), key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}

func (s *SQLSlots) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Conn().ExecContext(ctx, s.db.bind(`DELETE FROM canvas_slots WHERE slot_key = ?`), key); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *SQLSlots) Close() error {
	return s.db.Close()
}
