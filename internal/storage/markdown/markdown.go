package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
)

const (
	counterFile = ".last-id"
	lockFile    = ".lock"
)

// Store implements storage.Storage using Markdown files with YAML front-matter.
type Store struct {
	dataDir string
	baseDir string // e.g. ~/.devjournal/entries/
	now     func() time.Time
}

// New creates a new Markdown file storage backend.
func New(dataDir string) (*Store, error) {
	entriesDir := filepath.Join(dataDir, "entries")
	if err := os.MkdirAll(entriesDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating entries directory: %v", storage.ErrStorage, err)
	}
	return &Store{dataDir: dataDir, baseDir: entriesDir, now: time.Now}, nil
}

// Close is a no-op for the Markdown backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) entryPath(e entry.Entry) string {
	t := e.CreatedAt.UTC()
	return filepath.Join(s.baseDir, t.Format("2006"), t.Format("01"), t.Format("02"),
		strconv.FormatInt(e.ID, 10)+".md")
}

type frontMatter struct {
	ID        int64    `yaml:"id"`
	CreatedAt string   `yaml:"created_at"`
	Project   string   `yaml:"project,omitempty"`
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags,omitempty"`
}

func (s *Store) marshal(e entry.Entry) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		ID:        e.ID,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		Project:   e.Project,
		Title:     e.Title,
		Tags:      e.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding front-matter: %v", storage.ErrStorage, err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(e.Description)
	b.WriteString("\n")
	return b.Bytes(), nil
}

func (s *Store) unmarshal(data []byte) (entry.Entry, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: parsing front-matter: %v", storage.ErrStorage, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fm.CreatedAt)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
	}

	return entry.Entry{
		ID:          fm.ID,
		CreatedAt:   createdAt.UTC(),
		Project:     fm.Project,
		Title:       fm.Title,
		Description: strings.TrimSpace(string(body)),
		Tags:        fm.Tags,
	}, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", storage.ErrStorage, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", storage.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", storage.ErrStorage, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", storage.ErrStorage, err)
	}

	return nil
}

// lock takes an exclusive flock on the data directory's lock file. Writers
// from other processes block until unlock is called.
func (s *Store) lock() (unlock func(), err error) {
	f, err := os.OpenFile(filepath.Join(s.dataDir, lockFile), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening lock file: %v", storage.ErrStorage, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: acquiring lock: %v", storage.ErrStorage, err)
	}
	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}

// lastID returns the highest ID ever assigned. The counter file survives
// deletions so IDs are never reused; without it the entries are scanned.
func (s *Store) lastID() (int64, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, counterFile))
	if err == nil {
		id, perr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: parsing id counter: %v", storage.ErrStorage, perr)
		}
		return id, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: reading id counter: %v", storage.ErrStorage, err)
	}

	entries, err := s.all()
	if err != nil {
		return 0, err
	}
	var highest int64
	for _, e := range entries {
		if e.ID > highest {
			highest = e.ID
		}
	}
	return highest, nil
}

func (s *Store) setLastID(id int64) error {
	return s.atomicWrite(filepath.Join(s.dataDir, counterFile), []byte(strconv.FormatInt(id, 10)+"\n"))
}

// Create persists a new journal entry as a Markdown file.
func (s *Store) Create(e entry.Entry) (entry.Entry, error) {
	e, err := storage.Prepare(e, s.now())
	if err != nil {
		return entry.Entry{}, err
	}

	unlock, err := s.lock()
	if err != nil {
		return entry.Entry{}, err
	}
	defer unlock()

	last, err := s.lastID()
	if err != nil {
		return entry.Entry{}, err
	}

	if e.ID == 0 {
		e.ID = last + 1
	} else if _, err := s.findEntryPath(e.ID); err == nil {
		return entry.Entry{}, fmt.Errorf("%w: entry %d", storage.ErrConflict, e.ID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return entry.Entry{}, err
	}

	data, err := s.marshal(e)
	if err != nil {
		return entry.Entry{}, err
	}
	if err := s.atomicWrite(s.entryPath(e), data); err != nil {
		return entry.Entry{}, err
	}
	if e.ID > last {
		if err := s.setLastID(e.ID); err != nil {
			return entry.Entry{}, err
		}
	}
	return e, nil
}

// Get retrieves an entry by ID by scanning the directory tree.
func (s *Store) Get(id int64) (entry.Entry, error) {
	path, err := s.findEntryPath(id)
	if err != nil {
		return entry.Entry{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: reading file: %v", storage.ErrStorage, err)
	}

	return s.unmarshal(data)
}

// findEntryPath locates the file for a given entry ID.
func (s *Store) findEntryPath(id int64) (string, error) {
	name := strconv.FormatInt(id, 10) + ".md"
	var found string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: scanning entries: %v", storage.ErrStorage, err)
	}
	if found == "" {
		return "", storage.ErrNotFound
	}
	return found, nil
}

// all reads every parseable entry file, unordered.
func (s *Store) all() ([]entry.Entry, error) {
	var entries []entry.Entry
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}

		e, err := s.unmarshal(data)
		if err != nil {
			return nil // skip malformed files
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	return entries, nil
}

// List returns entries matching the given options, newest first.
func (s *Store) List(opts storage.ListOptions) ([]entry.Entry, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}

	entries := []entry.Entry{}
	for _, e := range all {
		if opts.Project != "" && e.Project != opts.Project {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return storage.Less(entries[i], entries[j])
	})

	if opts.Limit > 0 && opts.Limit < len(entries) {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// Delete removes an entry permanently.
func (s *Store) Delete(id int64) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	path, err := s.findEntryPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: deleting file: %v", storage.ErrStorage, err)
	}
	return nil
}

// DeleteByProject removes every entry of project and returns how many were
// removed.
func (s *Store) DeleteByProject(project string) (int, error) {
	if project == "" {
		return 0, fmt.Errorf("%w: project must not be empty", storage.ErrValidation)
	}

	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	entries, err := s.all()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, e := range entries {
		if e.Project != project {
			continue
		}
		if err := os.Remove(s.entryPath(e)); err != nil {
			return deleted, fmt.Errorf("%w: deleting file: %v", storage.ErrStorage, err)
		}
		deleted++
	}
	return deleted, nil
}

// Projects returns entry counts for every named project.
func (s *Store) Projects() ([]storage.ProjectCount, error) {
	entries, err := s.all()
	if err != nil {
		return nil, err
	}
	return countProjects(entries), nil
}

// Stats summarizes the journal.
func (s *Store) Stats() (storage.Stats, error) {
	entries, err := s.all()
	if err != nil {
		return storage.Stats{}, err
	}

	st := storage.Stats{
		TotalEntries: len(entries),
		Projects:     countProjects(entries),
	}
	st.TotalProjects = len(st.Projects)
	for i := range entries {
		created := entries[i].CreatedAt
		if st.FirstEntry == nil || created.Before(*st.FirstEntry) {
			st.FirstEntry = &created
		}
		if st.LastEntry == nil || created.After(*st.LastEntry) {
			st.LastEntry = &created
		}
	}
	return st, nil
}

func countProjects(entries []entry.Entry) []storage.ProjectCount {
	byName := make(map[string]int)
	for _, e := range entries {
		if e.Project != "" {
			byName[e.Project]++
		}
	}
	counts := make([]storage.ProjectCount, 0, len(byName))
	for name, n := range byName {
		counts = append(counts, storage.ProjectCount{Project: name, Count: n})
	}
	storage.SortProjects(counts)
	return counts
}
