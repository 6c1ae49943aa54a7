package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/debemdeboas/blogfront/internal/db"
	"github.com/google/uuid"
)

// SQLiteRepository stores sessions in the sessions table so they survive
// restarts without handing the token to the browser.
type SQLiteRepository struct {
	db   db.Db
	opts Options
	now  func() time.Time
}

func NewSQLiteRepository(d db.Db, opts Options) *SQLiteRepository {
	return &SQLiteRepository{db: d, opts: opts, now: time.Now}
}

func (s *SQLiteRepository) Get(r *http.Request) (Session, error) {
	id, ok := readID(r)
	if !ok {
		return Session{}, ErrNoSession
	}

	var sess Session
	var expires int64
	err := s.db.QueryRow(r.Context(),
		`SELECT token, username, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.Token, &sess.Username, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	if s.now().Unix() > expires {
		if _, err := s.db.Exec(r.Context(), `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			sessionLogger.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func (s *SQLiteRepository) Set(w http.ResponseWriter, r *http.Request, sess Session) error {
	ctx := r.Context()
	if old, ok := readID(r); ok {
		if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = ?`, old); err != nil {
			return fmt.Errorf("replace session: %w", err)
		}
	}

	id := uuid.NewString()
	expires := s.now().Add(s.opts.ttl()).Unix()
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, token, username, expires_at) VALUES (?, ?, ?, ?)`,
		id, sess.Token, sess.Username, expires)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	writeID(w, id, s.opts)
	return nil
}

func (s *SQLiteRepository) Clear(w http.ResponseWriter, r *http.Request) error {
	expireID(w, s.opts)

	id, ok := readID(r)
	if !ok {
		return nil
	}
	if _, err := s.db.Exec(r.Context(), `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Prune deletes expired sessions and reports how many were removed.
func (s *SQLiteRepository) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < ?`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
