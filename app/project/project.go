// Package project wires iteration store, control group tracker and job manager of one
// inversion project, as the optimization driver uses them.
package project

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/invflow/app/catalog"
	"github.com/umputun/invflow/app/config"
	"github.com/umputun/invflow/app/ctrlgroup"
	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/intent"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/journal"
	"github.com/umputun/invflow/app/lifecycle"
	"github.com/umputun/invflow/app/store"
)

// Project is the set of collaborators for one project file
type Project struct {
	Config  *config.Config
	Store   *store.Store
	Bridge  *store.Bridge
	Tracker *ctrlgroup.Tracker
	Catalog *catalog.Catalog
	Journal *journal.Journal
	Markers *intent.Markers
	Manager *lifecycle.Manager
}

// Counts of jobs per lifecycle state
type Counts struct {
	Unsubmitted int `json:"unsubmitted"`
	Submitted   int `json:"submitted"`
	Retrieved   int `json:"retrieved"`
	Reposts     int `json:"reposts"`
}

// Summary of an iteration, counts by job kind
type Summary struct {
	Iteration string            `json:"iteration"`
	Events    int               `json:"events"`
	Jobs      map[string]Counts `json:"jobs"`
}

// Open makes project for cfg with jobs going to backend
func Open(cfg *config.Config, backend lifecycle.Backend) (*Project, error) {
	res := &Project{Config: cfg, Catalog: catalog.New(cfg.Paths.Catalog)}
	res.Tracker = ctrlgroup.New(cfg.Paths.ControlGroups, store.NewSequence(cfg.Paths.Iterations))

	st, err := store.New(store.Params{Dir: cfg.Paths.Iterations, Mode: cfg.Inversion.Mode, Meshes: cfg.Inversion.Meshes,
		Catalog: res.Catalog, Groups: res.Tracker})
	if err != nil {
		return nil, fmt.Errorf("failed to make iteration store: %w", err)
	}
	res.Store, res.Bridge = st, store.NewBridge(st)

	if res.Journal, err = journal.New(cfg.Paths.Journal); err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	res.Markers = intent.New(cfg.Paths.Intents, true)
	res.Manager = &lifecycle.Manager{Backend: backend, Mutator: res.Bridge, Resources: cfg.Resources(),
		Journal: res.Journal, Intents: res.Markers}

	if left := res.Markers.List(); len(left) > 0 {
		log.Printf("[WARN] %d submissions were interrupted before their job was recorded, see %s", len(left), res.Markers)
	}
	return res, nil
}

// CreateIteration starts the iteration in the control group ledger and makes its fresh record.
// Non-empty events are put into the catalog first, otherwise the catalog should list the iteration.
func (p *Project) CreateIteration(name string, events []string) (*iteration.Iteration, error) {
	if len(events) > 0 {
		if err := p.Catalog.Set(name, events); err != nil {
			return nil, err
		}
	}
	if err := p.Tracker.StartIteration(name, iteration.IsValidationName(name)); err != nil {
		return nil, err
	}
	return p.Store.Create(name)
}

// Iteration loads the record of a current iteration for changes
func (p *Project) Iteration(name string) (*iteration.Iteration, error) { return p.Store.Load(name) }

// Historical loads a read-only record of a past iteration
func (p *Project) Historical(name string) (*iteration.Iteration, error) {
	return p.Store.LoadHistorical(name)
}

// CommitControlGroup sets the new control group of the iteration in its record and in the ledger
func (p *Project) CommitControlGroup(it *iteration.Iteration, members []string) error {
	if err := p.Bridge.Apply(it, iteration.SetNewControlGroup(members)); err != nil {
		return err
	}
	return p.Tracker.CommitNewGroup(it.Name, it.NewControlGroup)
}

// OutputDir returns where retrieved outputs of the job go
func (p *Project) OutputDir(it *iteration.Iteration, event string, kind enums.JobKind) string {
	if event == "" || (kind == enums.JobKindSmoothing && it.Smoothing != nil) {
		return filepath.Join(p.Config.Paths.Outputs, it.Name, kind.String())
	}
	return filepath.Join(p.Config.Paths.Outputs, it.Name, event, kind.String())
}

// List returns names of all iterations with records
func (p *Project) List() ([]string, error) { return p.Store.List() }

// Active returns names of iterations with jobs submitted and not retrieved yet
func (p *Project) Active() ([]string, error) {
	names, err := p.Store.List()
	if err != nil {
		return nil, err
	}
	res := []string{}
	for _, name := range names {
		it, err := p.Store.LoadHistorical(name)
		if err != nil {
			log.Printf("[WARN] can't load %s, %v", name, err)
			continue
		}
		for _, c := range Summarize(it).Jobs {
			if c.Submitted > 0 {
				res = append(res, name)
				break
			}
		}
	}
	return res, nil
}

// History returns journal entries of the iteration, oldest first
func (p *Project) History(ctx context.Context, name string) ([]journal.Entry, error) {
	return p.Journal.History(ctx, name)
}

// Intents returns submissions interrupted before their job was recorded
func (p *Project) Intents() []intent.Intent { return p.Markers.List() }

// ControlGroups returns the control group ledger of all iterations
func (p *Project) ControlGroups() (ctrlgroup.Ledger, error) { return p.Tracker.Ledger() }

// Close releases the journal
func (p *Project) Close() error {
	if p.Journal == nil {
		return nil
	}
	return p.Journal.Close()
}

// Summarize counts jobs of it by kind and state, shared mono-batch smoothing counted once
func Summarize(it *iteration.Iteration) Summary {
	res := Summary{Iteration: it.Name, Events: len(it.Events), Jobs: map[string]Counts{}}
	add := func(kind enums.JobKind, j *iteration.JobRecord) {
		c := res.Jobs[kind.String()]
		switch j.State() {
		case iteration.JobRetrieved:
			c.Retrieved++
		case iteration.JobSubmitted:
			c.Submitted++
		default:
			c.Unsubmitted++
		}
		c.Reposts += j.Reposts
		res.Jobs[kind.String()] = c
	}

	for _, kind := range it.Kinds() {
		if kind == enums.JobKindSmoothing && it.Smoothing != nil {
			add(kind, it.Smoothing)
			continue
		}
		for _, ev := range it.EventNames() {
			if j, err := it.Job(ev, kind); err == nil {
				add(kind, j)
			}
		}
	}
	return res
}
