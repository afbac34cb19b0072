package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"pagesmith/internal/domain"
)

// SQLStore implements domain.DocumentStore over database/sql. The same
// store serves sqlite, mysql and postgres; queries are written with `?`
// placeholders and rebound per dialect. Sections travel inside the row as a
// JSON array, so a save is a single whole-document write.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLiteStore opens (or creates) the SQLite file at path.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to single connection to prevent SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db, driver: DriverSQLite}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewSQLStore opens a server-backed SQL store (mysql or postgres).
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// buildMySQLDSN constructs a MySQL DSN from the backend config.
func buildMySQLDSN(cfg Config) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.Username, cfg.Password, cfg.Host, port, cfg.Database,
	)
	if cfg.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

// buildPostgresDSN constructs a Postgres connection string from the backend config.
func buildPostgresDSN(cfg Config) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.Username, cfg.Password, cfg.Database, sslMode,
	)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) migrate() error {
	idType := "TEXT"
	timeType := "DATETIME"
	textType := "TEXT"
	switch s.driver {
	case DriverMySQL:
		idType = "VARCHAR(64)"
		textType = "MEDIUMTEXT"
	case DriverPostgres:
		timeType = "TIMESTAMPTZ"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
		id %s PRIMARY KEY,
		title %s NOT NULL,
		slug %s NOT NULL,
		status %s NOT NULL,
		tags_json %s NOT NULL,
		sections_json %s NOT NULL,
		publish_at %s NULL,
		created_at %s NOT NULL,
		updated_at %s NOT NULL
	)`, idType, textType, textType, textType, textType, textType, timeType, timeType, timeType)

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// rebind rewrites `?` placeholders to `$n` for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) CreateDocument(ctx context.Context, d *domain.Document) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	tags, sections, err := encodeDocument(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO documents (id, title, slug, status, tags_json, sections_json, publish_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		d.ID, d.Title, d.Slug, d.Status, tags, sections, nullTime(d.PublishAt), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *SQLStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, title, slug, status, tags_json, sections_json, publish_at, created_at, updated_at
		 FROM documents WHERE id = ?`), id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// UpdateDocument replaces the whole persisted document: metadata and the
// full section array in one write, last write wins.
func (s *SQLStore) UpdateDocument(ctx context.Context, d *domain.Document) error {
	d.UpdatedAt = time.Now().UTC()
	tags, sections, err := encodeDocument(d)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE documents SET title = ?, slug = ?, status = ?, tags_json = ?, sections_json = ?, publish_at = ?, updated_at = ?
		 WHERE id = ?`),
		d.Title, d.Slug, d.Status, tags, sections, nullTime(d.PublishAt), d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM documents WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *SQLStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, slug, status, tags_json, sections_json, publish_at, created_at, updated_at
		 FROM documents ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *SQLStore) ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, title, slug, status, tags_json, sections_json, publish_at, created_at, updated_at
		 FROM documents WHERE status = ? AND publish_at IS NOT NULL AND publish_at <= ?
		 ORDER BY publish_at ASC`),
		domain.StatusScheduled, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due scheduled: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ── row (de)serialization ──────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeDocument(d *domain.Document) (tags, sections string, err error) {
	tagBytes, err := json.Marshal(d.Tags)
	if err != nil {
		return "", "", fmt.Errorf("marshal tags: %w", err)
	}
	sectionList := d.Sections
	if sectionList == nil {
		sectionList = []domain.Section{}
	}
	sectionBytes, err := json.Marshal(sectionList)
	if err != nil {
		return "", "", fmt.Errorf("marshal sections: %w", err)
	}
	return string(tagBytes), string(sectionBytes), nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		d         domain.Document
		tags      string
		sections  string
		publishAt sql.NullTime
	)
	if err := row.Scan(&d.ID, &d.Title, &d.Slug, &d.Status, &tags, &sections, &publishAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(sections), &d.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	if publishAt.Valid {
		at := publishAt.Time
		d.PublishAt = &at
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
