// Package routebook keeps named route documents in a local sqlite database.
package routebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/routedoc"
	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

const lockTimeout = 5 * time.Second

type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// Entry is a stored route document plus the summary columns used for listing.
type Entry struct {
	Name      string
	Chain     string
	Protocol  string
	Hops      int
	Document  *routedoc.Document
	UpdatedAt time.Time
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create routebook directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite routebook: %w", err)
	}
	store := &Store{db: db, lock: flock.New(lockPath)}

	unlock, err := store.acquire(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer unlock()
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS routes (name TEXT PRIMARY KEY, chain TEXT NOT NULL, protocol TEXT NOT NULL, hops INTEGER NOT NULL, document BLOB NOT NULL, updated_at INTEGER NOT NULL);")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init routebook schema: %w", err)
	}
	return store, nil
}

// dsn applies the pragmas on every pooled connection. busy_timeout comes first so the switch
// to WAL waits on a concurrent writer instead of failing.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces the document stored under name.
func (s *Store) Save(ctx context.Context, name string, doc *routedoc.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if doc == nil {
		return clierr.New(clierr.CodeUsage, "route document is required")
	}
	data, err := routedoc.Marshal(doc)
	if err != nil {
		return err
	}
	protocol := strings.ToLower(strings.TrimSpace(doc.Protocol))
	if protocol == "" {
		protocol = routedoc.ProtocolMixed
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO routes (name, chain, protocol, hops, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			chain=excluded.chain,
			protocol=excluded.protocol,
			hops=excluded.hops,
			document=excluded.document,
			updated_at=excluded.updated_at
	`, name, doc.Chain, protocol, len(doc.Hops), data, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("routebook write: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (Entry, error) {
	var (
		entry       Entry
		data        []byte
		updatedUnix int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT name, chain, protocol, hops, document, updated_at FROM routes WHERE name = ?", name,
	).Scan(&entry.Name, &entry.Chain, &entry.Protocol, &entry.Hops, &data, &updatedUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, clierr.Newf(clierr.CodeNotFound, "no saved route named %q", name)
		}
		return Entry{}, fmt.Errorf("routebook read: %w", err)
	}
	doc, err := routedoc.Parse(data)
	if err != nil {
		return Entry{}, clierr.Wrap(clierr.CodeInternal, "stored route document is corrupt", err)
	}
	entry.Document = doc
	entry.UpdatedAt = time.Unix(updatedUnix, 0).UTC()
	return entry, nil
}

// List returns every entry ordered by name, without documents.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, chain, protocol, hops, updated_at FROM routes ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("routebook list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var updatedUnix int64
		if err := rows.Scan(&entry.Name, &entry.Chain, &entry.Protocol, &entry.Hops, &updatedUnix); err != nil {
			return nil, fmt.Errorf("routebook list: %w", err)
		}
		entry.UpdatedAt = time.Unix(updatedUnix, 0).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routebook list: %w", err)
	}
	return entries, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM routes WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("routebook delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return clierr.Newf(clierr.CodeNotFound, "no saved route named %q", name)
	}
	return nil
}

// ValidateName accepts up to 64 letters, digits, dots, dashes and underscores.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return clierr.Newf(clierr.CodeUsage, "invalid route name %q", name)
	}
	return nil
}

func (s *Store) acquire(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock routebook: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock routebook: timeout acquiring lock")
	}
	return func() { _ = s.lock.Unlock() }, nil
}
