package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	_ "github.com/tursodatabase/go-libsql"
)

// FileName is the database file New creates inside the data directory.
const FileName = "journal.db"

// timeLayout is fixed-width so that text comparison in SQL matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = "SELECT id, created_at, project, title, description, tags FROM journal_entries"

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite storage backend inside dataDir.
func New(dataDir string) (*Store, error) {
	return Open(filepath.Join(dataDir, FileName))
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal_entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at  TEXT NOT NULL,
			project     TEXT NOT NULL DEFAULT '',
			title       TEXT NOT NULL CHECK(length(trim(title)) > 0),
			description TEXT NOT NULL CHECK(length(trim(description)) > 0),
			tags        TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_project ON journal_entries(project);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create persists a new journal entry.
func (s *Store) Create(e entry.Entry) (entry.Entry, error) {
	e, err := storage.Prepare(e, s.now())
	if err != nil {
		return entry.Entry{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	created := e.CreatedAt.Format(timeLayout)
	tags := strings.Join(e.Tags, ",")

	if e.ID > 0 {
		var exists int
		if err := tx.QueryRow("SELECT COUNT(*) FROM journal_entries WHERE id = ?", e.ID).Scan(&exists); err != nil {
			return entry.Entry{}, fmt.Errorf("%w: checking entry: %v", storage.ErrStorage, err)
		}
		if exists > 0 {
			return entry.Entry{}, fmt.Errorf("%w: entry %d", storage.ErrConflict, e.ID)
		}
		if _, err := tx.Exec(
			"INSERT INTO journal_entries (id, created_at, project, title, description, tags) VALUES (?, ?, ?, ?, ?, ?)",
			e.ID, created, e.Project, e.Title, e.Description, tags,
		); err != nil {
			return entry.Entry{}, fmt.Errorf("%w: inserting entry: %v", storage.ErrStorage, err)
		}
	} else {
		err := tx.QueryRow(
			"INSERT INTO journal_entries (created_at, project, title, description, tags) VALUES (?, ?, ?, ?, ?) RETURNING id",
			created, e.Project, e.Title, e.Description, tags,
		).Scan(&e.ID)
		if err != nil {
			return entry.Entry{}, fmt.Errorf("%w: inserting entry: %v", storage.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(id int64) (entry.Entry, error) {
	row := s.db.QueryRow(selectColumns+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry.Entry{}, storage.ErrNotFound
		}
		return entry.Entry{}, fmt.Errorf("%w: querying entry: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// List returns entries matching the given options, newest first.
func (s *Store) List(opts storage.ListOptions) ([]entry.Entry, error) {
	query := selectColumns
	var args []interface{}

	if opts.Project != "" {
		query += " WHERE project = ?"
		args = append(args, opts.Project)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	return entries, nil
}

// Delete removes an entry permanently.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM journal_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting entry: %v", storage.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteByProject removes every entry of project and returns how many were
// removed.
func (s *Store) DeleteByProject(project string) (int, error) {
	if project == "" {
		return 0, fmt.Errorf("%w: project must not be empty", storage.ErrValidation)
	}
	result, err := s.db.Exec("DELETE FROM journal_entries WHERE project = ?", project)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting entries: %v", storage.ErrStorage, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	return int(rows), nil
}

// Projects returns entry counts for every named project.
func (s *Store) Projects() ([]storage.ProjectCount, error) {
	rows, err := s.db.Query(`
		SELECT project, COUNT(*) FROM journal_entries
		WHERE project != ''
		GROUP BY project
		ORDER BY COUNT(*) DESC, project ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing projects: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	counts := []storage.ProjectCount{}
	for rows.Next() {
		var pc storage.ProjectCount
		if err := rows.Scan(&pc.Project, &pc.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing projects: %v", storage.ErrStorage, err)
	}
	return counts, nil
}

// Stats summarizes the journal.
func (s *Store) Stats() (storage.Stats, error) {
	var st storage.Stats
	var first, last sql.NullString
	err := s.db.QueryRow(`
		SELECT COUNT(*), MIN(created_at), MAX(created_at)
		FROM journal_entries`).Scan(&st.TotalEntries, &first, &last)
	if err != nil {
		return storage.Stats{}, fmt.Errorf("%w: querying stats: %v", storage.ErrStorage, err)
	}

	if first.Valid {
		t, err := time.Parse(timeLayout, first.String)
		if err != nil {
			return storage.Stats{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
		}
		st.FirstEntry = &t
	}
	if last.Valid {
		t, err := time.Parse(timeLayout, last.String)
		if err != nil {
			return storage.Stats{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
		}
		st.LastEntry = &t
	}

	st.Projects, err = s.Projects()
	if err != nil {
		return storage.Stats{}, err
	}
	st.TotalProjects = len(st.Projects)
	return st, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (entry.Entry, error) {
	var e entry.Entry
	var createdStr, tags string
	if err := row.Scan(&e.ID, &createdStr, &e.Project, &e.Title, &e.Description, &tags); err != nil {
		return entry.Entry{}, err
	}

	created, err := time.Parse(timeLayout, createdStr)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("parsing created_at: %v", err)
	}
	e.CreatedAt = created
	if tags != "" {
		e.Tags = strings.Split(tags, ",")
	}
	return e, nil
}
