// Package spool implements lifecycle.Backend over a shared directory. Submit drops a job
// description into <root>/<site>/<job>/job.yml, the site agent running jobs writes the status
// file next to it and puts results into the outputs directory.
package spool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/lifecycle"
	"github.com/umputun/invflow/app/store"
)

const (
	jobFile    = "job.yml"
	statusFile = "status"
	outputsDir = "outputs"
	anySite    = "default"
)

// Descriptor is the job file read by the site agent
type Descriptor struct {
	Name        string        `yaml:"name"`
	Label       string        `yaml:"label"`
	Site        string        `yaml:"site"`
	Ranks       int           `yaml:"ranks"`
	WallTime    time.Duration `yaml:"wall_time"`
	Submitted   time.Time     `yaml:"submitted"`
	Description any           `yaml:"description,omitempty"`
}

// Spool is a directory backed compute backend. Terminal statuses are cached until
// a forced refresh.
type Spool struct {
	root string

	lock  sync.Mutex
	cache map[string]enums.Status
}

// New makes spool in root, the directory created if missing
func New(root string) (*Spool, error) {
	if root == "" {
		return nil, errors.New("empty spool root")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to make spool root %s: %w", root, err)
	}
	return &Spool{root: root, cache: map[string]enums.Status{}}, nil
}

// Submit writes the job description and pending status, job name is a fresh uuid
func (s *Spool) Submit(ctx context.Context, req lifecycle.SubmitRequest) (lifecycle.Handle, error) {
	if err := ctx.Err(); err != nil {
		return lifecycle.Handle{}, err
	}
	h := lifecycle.Handle{Name: uuid.NewString(), Site: req.Site}
	dir := s.dir(h)
	if err := os.MkdirAll(filepath.Join(dir, outputsDir), 0o750); err != nil {
		return lifecycle.Handle{}, fmt.Errorf("failed to make job dir: %w", err)
	}

	data, err := yaml.Marshal(Descriptor{Name: h.Name, Label: req.Label, Site: req.Site, Ranks: req.Ranks,
		WallTime: req.WallTime, Submitted: time.Now().UTC(), Description: req.Description})
	if err != nil {
		return lifecycle.Handle{}, fmt.Errorf("failed to marshal job %s: %w", req.Label, err)
	}
	if err := store.WriteAtomic(filepath.Join(dir, jobFile), data); err != nil {
		return lifecycle.Handle{}, err
	}
	if err := s.write(h, enums.StatusPending); err != nil {
		return lifecycle.Handle{}, err
	}
	log.Printf("[DEBUG] spooled %s as %s", req.Label, h)
	return h, nil
}

// Status reads the status file. Unless forceRefresh is set, a terminal status seen before
// is returned without reading.
func (s *Spool) Status(ctx context.Context, h lifecycle.Handle, forceRefresh bool) (enums.Status, error) {
	if err := ctx.Err(); err != nil {
		return enums.StatusUnknown, err
	}
	if !forceRefresh {
		s.lock.Lock()
		st, ok := s.cache[h.String()]
		s.lock.Unlock()
		if ok {
			return st, nil
		}
	}
	if err := s.exists(h); err != nil {
		return enums.StatusUnknown, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir(h), statusFile))
	if err != nil {
		if os.IsNotExist(err) {
			return enums.StatusPending, nil
		}
		return enums.StatusUnknown, fmt.Errorf("failed to read status of %s: %w", h, err)
	}
	st, err := enums.ParseStatus(string(data))
	if err != nil {
		return enums.StatusUnknown, fmt.Errorf("bad status file of %s: %w", h, err)
	}

	s.lock.Lock()
	if st.Terminal() {
		s.cache[h.String()] = st
	} else {
		delete(s.cache, h.String())
	}
	s.lock.Unlock()
	return st, nil
}

// SetStatus writes the status of a job, for site agents and tools acting as one
func (s *Spool) SetStatus(h lifecycle.Handle, st enums.Status) error {
	if err := s.exists(h); err != nil {
		return err
	}
	return s.write(h, st)
}

// ListOutputFiles returns output file names mapped to their paths in the spool
func (s *Spool) ListOutputFiles(ctx context.Context, h lifecycle.Handle) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.exists(h); err != nil {
		return nil, err
	}
	res := map[string]string{}
	dir := filepath.Join(s.dir(h), outputsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to list outputs of %s: %w", h, err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		res[e.Name()] = filepath.Join(dir, e.Name())
	}
	return res, nil
}

// FetchOutputs copies all output files of the job into destination
func (s *Spool) FetchOutputs(ctx context.Context, h lifecycle.Handle, destination string) error {
	files, err := s.ListOutputFiles(ctx, h)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destination, 0o750); err != nil {
		return fmt.Errorf("failed to make destination %s: %w", destination, err)
	}
	for name, src := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyFile(src, filepath.Join(destination, name)); err != nil {
			return fmt.Errorf("failed to fetch %s of %s: %w", name, h, err)
		}
	}
	log.Printf("[DEBUG] fetched %d files of %s to %s", len(files), h, destination)
	return nil
}

// Delete removes the job with all its files
func (s *Spool) Delete(ctx context.Context, h lifecycle.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.exists(h); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir(h)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", h, err)
	}
	s.lock.Lock()
	delete(s.cache, h.String())
	s.lock.Unlock()
	return nil
}

func (s *Spool) String() string { return "spool:" + s.root }

func (s *Spool) dir(h lifecycle.Handle) string {
	site := h.Site
	if site == "" {
		site = anySite
	}
	return filepath.Join(s.root, site, h.Name)
}

func (s *Spool) exists(h lifecycle.Handle) error {
	if h.Name == "" || strings.ContainsAny(h.Name, `/\`) || strings.HasPrefix(h.Name, ".") {
		return fmt.Errorf("bad job name %q: %w", h.Name, iteration.ErrNotFound)
	}
	if _, err := os.Stat(filepath.Join(s.dir(h), jobFile)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("job %s: %w", h, iteration.ErrNotFound)
		}
		return fmt.Errorf("failed to check job %s: %w", h, err)
	}
	return nil
}

func (s *Spool) write(h lifecycle.Handle, st enums.Status) error {
	if err := store.WriteAtomic(filepath.Join(s.dir(h), statusFile), []byte(st.String())); err != nil {
		return fmt.Errorf("failed to write status of %s: %w", h, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // path from the spool listing
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst) //nolint:gosec // destination given by the caller
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
