// Package catalog provides events of iterations from a yaml file:
//
//	iterations:
//	  it0000_model: [E1, E2, E3]
//	validation: [V1, V2]
//
// Validation iterations take the validation event set unless listed explicitly.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/store"
)

// File is the catalog document
type File struct {
	Iterations map[string][]string `yaml:"iterations"`
	Validation []string            `yaml:"validation,omitempty"`
}

// Catalog reads the catalog file on every call, the driver may change it between iterations
type Catalog struct {
	path string
	lock sync.Mutex
}

// New makes catalog for path
func New(path string) *Catalog { return &Catalog{path: path} }

// Events returns events of the iteration in catalog order, ErrNotFound for unknown iteration
func (c *Catalog) Events(name string) ([]string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	f, err := c.read()
	if err != nil {
		return nil, iteration.Wrap("catalog", name, "", enums.JobKindUnknown, err)
	}

	events, ok := f.Iterations[name]
	if !ok && iteration.IsValidationName(name) && len(f.Validation) > 0 {
		events, ok = f.Validation, true
	}
	if !ok {
		return nil, iteration.Errorf("catalog", name, "", enums.JobKindUnknown, iteration.ErrNotFound,
			"no events in %s", c.path)
	}
	return unique(name, events)
}

// Set stores events of the iteration, replacing the ones listed before
func (c *Catalog) Set(name string, events []string) error {
	if _, err := unique(name, events); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	f, err := c.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return iteration.Wrap("catalog", name, "", enums.JobKindUnknown, err)
	}
	if f.Iterations == nil {
		f.Iterations = map[string][]string{}
	}
	f.Iterations[name] = events
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	log.Printf("[INFO] catalog %s, set %d events for %s", c.path, len(events), name)
	return store.WriteAtomic(c.path, data)
}

func (c *Catalog) String() string { return "catalog:" + c.path }

func (c *Catalog) read() (File, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, fmt.Errorf("%w: catalog %s: %w", iteration.ErrNotFound, c.path, err)
		}
		return File{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: catalog %s: %w", iteration.ErrConfiguration, c.path, err)
	}
	return f, nil
}

// unique rejects empty and repeated event names
func unique(name string, events []string) ([]string, error) {
	seen := make(map[string]bool, len(events))
	res := make([]string, 0, len(events))
	for _, ev := range events {
		if ev == "" || seen[ev] {
			return nil, iteration.Errorf("catalog", name, ev, enums.JobKindUnknown, iteration.ErrConfiguration,
				"empty or repeated event %q", ev)
		}
		seen[ev] = true
		res = append(res, ev)
	}
	return res, nil
}
