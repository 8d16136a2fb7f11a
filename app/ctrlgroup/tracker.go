// Package ctrlgroup keeps the control group ledger. Each regular iteration starts with the
// group the previous regular iteration committed as its new one, validation iterations don't
// take part in the chain.
package ctrlgroup

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/store"
)

//go:generate moq -out mocks/ordering.go -pkg mocks -skip-ensure -fmt goimports . Ordering

// Ordering knows which regular iteration precedes another one
type Ordering interface {
	PreviousIteration(name string) (string, error)
}

// Groups are the control groups of one iteration
type Groups struct {
	Old []string `yaml:"old" json:"old"`
	New []string `yaml:"new" json:"new"`
}

// Ledger maps iteration name to its control groups
type Ledger map[string]Groups

// Tracker maintains the ledger file. All methods are safe for concurrent use,
// every change rewrites the whole file.
type Tracker struct {
	path     string
	ordering Ordering
	lock     sync.Mutex
}

// New makes tracker for the ledger file at path
func New(path string, ordering Ordering) *Tracker {
	return &Tracker{path: path, ordering: ordering}
}

// StartIteration registers a regular iteration with the old group chained from the previous
// iteration and an empty new group. Starting an already started iteration refreshes the old
// group and keeps the committed new one. No-op for validation iterations.
func (t *Tracker) StartIteration(name string, validation bool) error {
	if validation || iteration.IsValidationName(name) {
		log.Printf("[DEBUG] no control groups for validation iteration %s", name)
		return nil
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	ledger, err := t.read()
	if err != nil {
		return err
	}
	old, err := t.chain(ledger, name)
	if err != nil {
		return err
	}
	grp, ok := ledger[name]
	if !ok {
		grp.New = []string{}
	} else {
		log.Printf("[INFO] iteration %s already started, keeping new control group %v", name, grp.New)
	}
	grp.Old = old
	ledger[name] = grp
	return t.write(ledger)
}

// Chain returns the old group iteration name gets: new group of the previous regular
// iteration, empty for the first one
func (t *Tracker) Chain(name string) ([]string, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	ledger, err := t.read()
	if err != nil {
		return nil, err
	}
	return t.chain(ledger, name)
}

// CommitNewGroup records members as the new control group of a started iteration
func (t *Tracker) CommitNewGroup(name string, members []string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	ledger, err := t.read()
	if err != nil {
		return err
	}
	grp, ok := ledger[name]
	if !ok {
		return iteration.Errorf("commit control group", name, "", enums.JobKindUnknown, iteration.ErrInvalidState,
			"iteration not started")
	}
	grp.New = normalize(members)
	ledger[name] = grp
	if err := t.write(ledger); err != nil {
		return err
	}
	log.Printf("[INFO] committed control group of %s: %v", name, grp.New)
	return nil
}

// Old returns the control group iteration started with
func (t *Tracker) Old(name string) ([]string, error) {
	grp, err := t.get(name)
	return grp.Old, err
}

// New returns the control group committed by iteration
func (t *Tracker) New(name string) ([]string, error) {
	grp, err := t.get(name)
	return grp.New, err
}

// Ledger returns a copy of the whole ledger
func (t *Tracker) Ledger() (Ledger, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.read()
}

func (t *Tracker) get(name string) (Groups, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	ledger, err := t.read()
	if err != nil {
		return Groups{}, err
	}
	grp, ok := ledger[name]
	if !ok {
		return Groups{}, iteration.Errorf("control group", name, "", enums.JobKindUnknown, iteration.ErrNotFound,
			"iteration not in ledger")
	}
	return grp, nil
}

func (t *Tracker) chain(ledger Ledger, name string) ([]string, error) {
	prev, err := t.ordering.PreviousIteration(name)
	if err != nil {
		return nil, iteration.Wrap("chain control group", name, "", enums.JobKindUnknown, err)
	}
	if prev == "" {
		return []string{}, nil
	}
	grp, ok := ledger[prev]
	if !ok {
		return nil, iteration.Errorf("chain control group", name, "", enums.JobKindUnknown, iteration.ErrInvalidState,
			"previous iteration %s not started", prev)
	}
	return slices.Clone(grp.New), nil
}

func (t *Tracker) read() (Ledger, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Ledger{}, nil
		}
		return nil, fmt.Errorf("can't read control group ledger %s: %w", t.path, err)
	}
	res := Ledger{}
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: malformed control group ledger %s: %v", iteration.ErrConfiguration, t.path, err)
	}
	for name, grp := range res {
		res[name] = Groups{Old: normalize(grp.Old), New: normalize(grp.New)}
	}
	return res, nil
}

func (t *Tracker) write(ledger Ledger) error {
	data, err := yaml.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("can't marshal control group ledger: %w", err)
	}
	if err := store.WriteAtomic(t.path, data); err != nil {
		return fmt.Errorf("can't save control group ledger: %w", err)
	}
	return nil
}

func normalize(group []string) []string {
	res := make([]string, 0, len(group))
	for _, g := range group {
		if g != "" {
			res = append(res, g)
		}
	}
	sort.Strings(res)
	return slices.Compact(res)
}
