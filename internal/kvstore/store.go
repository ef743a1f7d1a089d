// Package kvstore is a small realtime key-value tree backed by SQLite.
//
// Values live at leaf paths such as "user/alice/name". Folders are implied by
// their descendants: a path is a folder when at least one leaf sits below it.
// Subscribers receive a Change after every committed write, including writes
// made by other processes sharing the database file when polling is enabled.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"debugdeck/internal/telemetry"
)

// ErrNotFound is returned by Remove when nothing exists at the path.
var ErrNotFound = errors.New("not found")

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store closed")

// Options configures a Store.
type Options struct {
	Tracer oteltrace.Tracer
	Logger *slog.Logger
	// PollInterval enables detection of writes from other processes.
	// Zero disables polling.
	PollInterval time.Duration
}

// Store is a SQLite-backed key-value tree.
type Store struct {
	db     *sql.DB
	tracer oteltrace.Tracer
	log    *slog.Logger

	mu      sync.Mutex
	subs    map[int]chan Change
	nextSub int
	closed  bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:     db,
		tracer: opts.Tracer,
		log:    opts.Logger,
		subs:   make(map[int]chan Change),
		stop:   make(chan struct{}),
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("kvstore")
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.PollInterval > 0 {
		s.wg.Add(1)
		go s.poll(opts.PollInterval)
	}
	return s, nil
}

// Close stops polling, closes every subscription and the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	return s.db.Close()
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) span(ctx context.Context, op, path string) (context.Context, oteltrace.Span) {
	return s.tracer.Start(ctx, "kvstore."+op, oteltrace.WithAttributes(
		attribute.String("kvstore.path", path),
	))
}

func finish(span oteltrace.Span, err error) {
	_ = telemetry.RecordError(span, err)
	span.End()
}

// Set stores value at path. Any subtree under path and any leaf stored at an
// ancestor of path are replaced.
func (s *Store) Set(ctx context.Context, path, value string) (err error) {
	ctx, span := s.span(ctx, "Set", path)
	defer func() { finish(span, err) }()

	if s.isClosed() {
		return ErrStoreClosed
	}
	p, err := CleanPath(path)
	if err != nil {
		return err
	}

	pre := descendantPrefix(p)
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM entries WHERE `+underPrefix, pre, pre); err != nil {
			return err
		}
		for _, a := range ancestors(p) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE path = ?`, a); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (path, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(path) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			p, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	s.log.Debug("kvstore set", "path", p)
	s.publish(Change{Op: OpSet, Path: p})
	return nil
}

// Push stores value under a new time-ordered key below parent and returns the
// key.
func (s *Store) Push(ctx context.Context, parent, value string) (string, error) {
	p, err := CleanPath(parent)
	if err != nil {
		return "", err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("push key: %w", err)
	}
	key := id.String()
	if err := s.Set(ctx, Join(p, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes the leaf or subtree at path.
func (s *Store) Remove(ctx context.Context, path string) (err error) {
	ctx, span := s.span(ctx, "Remove", path)
	defer func() { finish(span, err) }()

	if s.isClosed() {
		return ErrStoreClosed
	}
	p, err := CleanPath(path)
	if err != nil {
		return err
	}

	pre := descendantPrefix(p)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE path = ? OR `+underPrefix, p, pre, pre)
	if err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	if n == 0 {
		return fmt.Errorf("remove %s: %w", p, ErrNotFound)
	}
	s.log.Debug("kvstore remove", "path", p, "rows", n)
	s.publish(Change{Op: OpRemove, Path: p})
	return nil
}

// Get reads the node at path. An empty path reads the root. A missing node
// yields a Snapshot with Exists false and no error.
func (s *Store) Get(ctx context.Context, path string) (snap Snapshot, err error) {
	ctx, span := s.span(ctx, "Get", path)
	defer func() { finish(span, err) }()

	if s.isClosed() {
		return Snapshot{}, ErrStoreClosed
	}
	p := ""
	if strings.Trim(path, "/ ") != "" {
		if p, err = CleanPath(path); err != nil {
			return Snapshot{}, err
		}
	}
	snap.Path = p

	if p != "" {
		var value string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE path = ?`, p).Scan(&value)
		switch {
		case err == nil:
			snap.Exists, snap.Leaf, snap.Value = true, true, value
			return snap, nil
		case !errors.Is(err, sql.ErrNoRows):
			return Snapshot{}, fmt.Errorf("get %s: %w", p, err)
		}
	}

	pre := descendantPrefix(p)
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, value FROM entries WHERE `+underPrefix+` ORDER BY path`, pre, pre)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get %s: %w", p, err)
	}
	defer rows.Close()

	children := map[string]*Child{}
	for rows.Next() {
		var full, value string
		if err := rows.Scan(&full, &value); err != nil {
			return Snapshot{}, fmt.Errorf("get %s: %w", p, err)
		}
		rest := strings.TrimPrefix(full, pre)
		key, _, nested := strings.Cut(rest, "/")
		c, ok := children[key]
		if !ok {
			c = &Child{Key: key}
			children[key] = c
		}
		if nested {
			c.Folder = true
			c.Count++
		} else {
			c.Value = value
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("get %s: %w", p, err)
	}

	for _, c := range children {
		snap.Children = append(snap.Children, *c)
	}
	sort.Slice(snap.Children, func(i, j int) bool {
		return snap.Children[i].Key < snap.Children[j].Key
	})
	snap.Exists = p == "" || len(snap.Children) > 0
	return snap, nil
}

// withTx runs fn in a transaction.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
