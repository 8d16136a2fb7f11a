// Package store persists iteration records, one yaml file per iteration, and provides
// the mutation bridge keeping in-memory and on-disk state in step.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
)

//go:generate moq -out mocks/catalog.go -pkg mocks -skip-ensure -fmt goimports . Catalog
//go:generate moq -out mocks/groups.go -pkg mocks -skip-ensure -fmt goimports . Groups

const (
	ext       = ".yml"
	backupDir = "BACKUP"
)

// Catalog lists events of an iteration
type Catalog interface {
	Events(iteration string) ([]string, error)
}

// Groups provides the control group a new regular iteration starts with
type Groups interface {
	Chain(iteration string) ([]string, error)
}

// Params for the store
type Params struct {
	Dir     string // directory with iteration records
	Mode    enums.InversionMode
	Meshes  enums.MeshMode
	Catalog Catalog
	Groups  Groups // optional, new iterations start with empty last_control_group if nil
}

// Store loads and saves iteration records. Saves of different iterations are safe to run
// concurrently, a single iteration should have one writer at a time.
type Store struct {
	Params
}

// New makes store for params, creating the records directory if missing
func New(p Params) (*Store, error) {
	if p.Dir == "" {
		return nil, fmt.Errorf("%w: empty store directory", iteration.ErrConfiguration)
	}
	if p.Mode == enums.InversionModeUnknown || p.Meshes == enums.MeshModeUnknown {
		return nil, fmt.Errorf("%w: inversion mode and mesh mode should be set", iteration.ErrConfiguration)
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("%w: no event catalog", iteration.ErrConfiguration)
	}
	if err := os.MkdirAll(p.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("can't make store directory %s: %w", p.Dir, err)
	}
	return &Store{Params: p}, nil
}

// Create makes a fresh record for name with unsubmitted jobs for every catalog event.
// An existing record is copied to the backup directory first and then overwritten.
func (s *Store) Create(name string) (*iteration.Iteration, error) {
	if err := checkName(name); err != nil {
		return nil, iteration.Wrap("create", name, "", enums.JobKindUnknown, err)
	}
	events, err := s.Catalog.Events(name)
	if err != nil {
		return nil, iteration.Wrap("create", name, "", enums.JobKindUnknown, fmt.Errorf("list events: %w", err))
	}

	var lastGroup []string
	if !iteration.IsValidationName(name) && s.Groups != nil {
		if lastGroup, err = s.Groups.Chain(name); err != nil {
			return nil, iteration.Wrap("create", name, "", enums.JobKindUnknown, fmt.Errorf("chain control group: %w", err))
		}
	}

	it, err := iteration.New(name, s.Mode, s.Meshes, events, lastGroup)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(s.path(name)); err == nil {
		bkp, e := s.backup(name)
		if e != nil {
			return nil, iteration.Wrap("create", name, "", enums.JobKindUnknown, e)
		}
		log.Printf("[WARN] iteration %s already exists, previous record saved to %s", name, bkp)
	}

	if err = s.Save(it); err != nil {
		return nil, err
	}
	log.Printf("[INFO] created iteration %s", it)
	return it, nil
}

// Load reads the record of name, ErrNotFound if it was never created and ErrConfiguration
// if the record is malformed or written for another inversion or mesh mode.
func (s *Store) Load(name string) (*iteration.Iteration, error) {
	if err := checkName(name); err != nil {
		return nil, iteration.Wrap("load", name, "", enums.JobKindUnknown, err)
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, iteration.Errorf("load", name, "", enums.JobKindUnknown, iteration.ErrNotFound, "no record in %s", s.Dir)
		}
		return nil, iteration.Wrap("load", name, "", enums.JobKindUnknown, err)
	}
	it, err := iteration.Decode(data, s.Mode, s.Meshes)
	if err != nil {
		return nil, err
	}
	if it.Name != name {
		return nil, iteration.Errorf("load", name, "", enums.JobKindUnknown, iteration.ErrConfiguration,
			"record keeps iteration %q", it.Name)
	}
	return it, nil
}

// LoadHistorical is Load returning a read-only record, the bridge refuses to mutate it
func (s *Store) LoadHistorical(name string) (*iteration.Iteration, error) {
	it, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	it.MarkReadOnly()
	return it, nil
}

// Save writes the whole record, replacing the previous file atomically
func (s *Store) Save(it *iteration.Iteration) error {
	if err := checkName(it.Name); err != nil {
		return iteration.Wrap("save", it.Name, "", enums.JobKindUnknown, err)
	}
	data, err := iteration.Encode(it)
	if err != nil {
		return err
	}
	if err := WriteAtomic(s.path(it.Name), data); err != nil {
		return iteration.Wrap("save", it.Name, "", enums.JobKindUnknown, err)
	}
	log.Printf("[DEBUG] saved iteration %s", it.Name)
	return nil
}

// List returns sorted names of all persisted iterations
func (s *Store) List() ([]string, error) { return listNames(s.Dir) }

func (s *Store) path(name string) string { return filepath.Join(s.Dir, name+ext) }

// backup copies the current record to BACKUP/<name>.<ts>.yml, every backup gets its own file
func (s *Store) backup(name string) (string, error) {
	dir := filepath.Join(s.Dir, backupDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("can't make backup directory: %w", err)
	}

	src, err := os.Open(s.path(name))
	if err != nil {
		return "", fmt.Errorf("can't open record for backup: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(dir, fmt.Sprintf("%s.%d%s", name, time.Now().UnixNano(), ext))
	fh, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // path made from checked name
	if err != nil {
		return "", fmt.Errorf("can't create backup %s: %w", dst, err)
	}
	if _, err = io.Copy(fh, src); err != nil {
		_ = fh.Close()
		return "", fmt.Errorf("can't copy backup %s: %w", dst, err)
	}
	if err = fh.Close(); err != nil {
		return "", fmt.Errorf("can't close backup %s: %w", dst, err)
	}
	return dst, nil
}

// WriteAtomic writes data to a temp file in the same directory and renames it over path,
// readers see either the old or the new complete file
func WriteAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("can't create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("can't chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("can't replace %s: %w", path, err)
	}
	return nil
}

// listNames returns names of iteration records in dir, skipping backups and temp files
func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("can't list iterations in %s: %w", dir, err)
	}
	res := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		res = append(res, strings.TrimSuffix(name, ext))
	}
	sort.Strings(res)
	return res, nil
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") || name == backupDir {
		return fmt.Errorf("%w: invalid iteration name %q", iteration.ErrConfiguration, name)
	}
	return nil
}
