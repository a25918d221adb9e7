// Package history stores conversation exchanges in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Source is where an utterance came from.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Entry is one exchange between the user and the assistant.
type Entry struct {
	ID       int64
	Session  string
	At       time.Time
	Source   Source
	Input    string
	Reply    string
	Action   string
	Duration time.Duration
}

// ActionCount is how often an action ran.
type ActionCount struct {
	Action string
	Count  int
}

// Stats summarizes the stored history.
type Stats struct {
	Total       int
	Sessions    int
	Voice       int
	Text        int
	AvgDuration time.Duration
	TopActions  []ActionCount
}

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session     TEXT    NOT NULL,
	at          INTEGER NOT NULL,
	source      TEXT    NOT NULL,
	input       TEXT    NOT NULL,
	reply       TEXT    NOT NULL,
	action      TEXT    NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_exchanges_at ON exchanges(at);
`

// Store records exchanges for one session.
type Store struct {
	db      *sql.DB
	session string
	now     func() time.Time
}

// Open opens or creates the database at path. ":memory:" keeps it in memory.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
		dsn += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	s := &Store{db: db, session: uuid.NewString(), now: time.Now}
	slog.Debug("history opened", "path", path, "session", s.session)
	return s, nil
}

// Session returns the ID written with every entry of this store.
func (s *Store) Session() string {
	return s.session
}

// Record stores an exchange. Session and time default to the store's
// session and now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Session == "" {
		e.Session = s.session
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	if e.Source == "" {
		e.Source = SourceVoice
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (session, at, source, input, reply, action, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Session, e.At.UnixMilli(), string(e.Source), e.Input, e.Reply, e.Action, e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record exchange: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, at, source, input, reply, action, duration_ms
		 FROM exchanges ORDER BY at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			at, ms int64
			source string
		)
		if err := rows.Scan(&e.ID, &e.Session, &at, &source, &e.Input, &e.Reply, &e.Action, &ms); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.At = time.UnixMilli(at)
		e.Source = Source(source)
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats summarizes all stored exchanges. TopActions lists the five most
// frequent non-empty actions.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		avg sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT session),
		        COALESCE(SUM(source = 'voice'), 0), COALESCE(SUM(source = 'text'), 0),
		        AVG(duration_ms)
		 FROM exchanges`).Scan(&st.Total, &st.Sessions, &st.Voice, &st.Text, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("query history stats: %w", err)
	}
	if avg.Valid {
		st.AvgDuration = time.Duration(avg.Float64 * float64(time.Millisecond))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT action, COUNT(*) AS n FROM exchanges WHERE action != ''
		 GROUP BY action ORDER BY n DESC, action LIMIT 5`)
	if err != nil {
		return Stats{}, fmt.Errorf("query history actions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ac ActionCount
		if err := rows.Scan(&ac.Action, &ac.Count); err != nil {
			return Stats{}, err
		}
		st.TopActions = append(st.TopActions, ac)
	}
	return st, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
