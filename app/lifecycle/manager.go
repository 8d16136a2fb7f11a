// Package lifecycle drives compute jobs of iterations through submission, status queries,
// retrieval and deletion. Per (iteration, event, kind) a job goes unsubmitted → submitted →
// retrieved, resubmission keeps it submitted and bumps the reposts counter. Every state change
// is persisted through the mutator before an operation returns. The manager never retries,
// backend failures come back as typed errors and the caller decides.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"github.com/hashicorp/go-multierror"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/intent"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/journal"
)

//go:generate moq -out mocks/mutator.go -pkg mocks -skip-ensure -fmt goimports . Mutator
//go:generate moq -out mocks/journal.go -pkg mocks -skip-ensure -fmt goimports . Journal
//go:generate moq -out mocks/intents.go -pkg mocks -skip-ensure -fmt goimports . Intents

// Mutator applies and persists iteration changes as one step, i.e. store.Bridge
type Mutator interface {
	Apply(it *iteration.Iteration, muts ...iteration.Mutation) error
}

// Journal records transitions for provenance
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Intents marks submissions in flight
type Intents interface {
	OnStart(in intent.Intent) (string, error)
	OnFinish(fname string) error
}

// Manager runs job operations for iterations passed in by the caller. Journal and Intents are
// optional and their failures are logged only.
type Manager struct {
	Backend   Backend
	Mutator   Mutator
	Resources Resources
	Journal   Journal
	Intents   Intents
}

// Submit starts the job of event and kind and persists its handle. A job already submitted is
// submitted again only if the backend reports it failed, counted as a repost, otherwise
// ErrAlreadySubmitted. Use empty event for mono-batch smoothing.
func (m *Manager) Submit(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind, desc any) (Handle, error) {
	job, err := m.job("submit", it, event, kind)
	if err != nil {
		return Handle{}, err
	}

	if job.Submitted {
		h := m.handle(kind, job.Name)
		st, err := m.Backend.Status(ctx, h, true)
		if err != nil {
			return Handle{}, backendErr("submit", it, event, kind, err)
		}
		if st != enums.StatusFailed {
			return Handle{}, iteration.Errorf("submit", it.Name, event, kind, iteration.ErrAlreadySubmitted,
				"job %s is %s", h, st)
		}
		log.Printf("[WARN] job %s of %s failed, submitting again", h, label(it, event, kind))
		return m.repost(ctx, it, event, kind, job, desc)
	}

	h, marker, err := m.launch(ctx, it, event, kind, desc)
	if err != nil {
		return Handle{}, err
	}
	if err := m.Mutator.Apply(it, iteration.SetJobName(event, kind, h.Name), iteration.SetSubmitted(event, kind, true)); err != nil {
		log.Printf("[ERROR] job %s of %s submitted but not persisted, intent marker %s kept", h, label(it, event, kind), marker)
		return Handle{}, err
	}
	m.finish(marker)
	m.record(ctx, it, event, kind, journal.ActionSubmit, h.Name, job.Reposts)
	log.Printf("[INFO] submitted %s as %s", label(it, event, kind), h)
	return h, nil
}

// Resubmit submits a submitted job again: reposts incremented, name replaced, retrieved reset.
// ErrInvalidState if the job was never submitted.
func (m *Manager) Resubmit(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind, desc any) (Handle, error) {
	job, err := m.job("resubmit", it, event, kind)
	if err != nil {
		return Handle{}, err
	}
	if !job.Submitted {
		return Handle{}, iteration.Errorf("resubmit", it.Name, event, kind, iteration.ErrInvalidState, "job never submitted")
	}
	return m.repost(ctx, it, event, kind, job, desc)
}

// Status asks the backend for the live status of the job, never a cached one
func (m *Manager) Status(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind) (enums.Status, error) {
	h, err := m.submittedHandle("status", it, event, kind)
	if err != nil {
		return enums.StatusUnknown, err
	}
	st, err := m.Backend.Status(ctx, h, true)
	if err != nil {
		return enums.StatusUnknown, backendErr("status", it, event, kind, err)
	}
	log.Printf("[DEBUG] status of %s (%s): %s", label(it, event, kind), h, st)
	return st, nil
}

// Retrieve copies outputs of a complete job to destination and marks it retrieved.
// ErrNotReady unless the backend reports the job complete, ErrMissingOutput if complete
// without outputs. Retrieving a retrieved job is a no-op.
func (m *Manager) Retrieve(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind, destination string) error {
	job, err := m.job("retrieve", it, event, kind)
	if err != nil {
		return err
	}
	if job.Retrieved {
		log.Printf("[DEBUG] %s already retrieved", label(it, event, kind))
		return nil
	}
	if !job.Submitted {
		return iteration.Errorf("retrieve", it.Name, event, kind, iteration.ErrNotReady, "job not submitted")
	}

	h := m.handle(kind, job.Name)
	st, err := m.Backend.Status(ctx, h, true)
	if err != nil {
		return backendErr("retrieve", it, event, kind, err)
	}
	if st != enums.StatusComplete {
		return iteration.Errorf("retrieve", it.Name, event, kind, iteration.ErrNotReady, "job %s is %s", h, st)
	}

	files, err := m.Backend.ListOutputFiles(ctx, h)
	if err != nil {
		return backendErr("retrieve", it, event, kind, err)
	}
	if len(files) == 0 {
		return iteration.Errorf("retrieve", it.Name, event, kind, iteration.ErrMissingOutput, "job %s has no output files", h)
	}
	if err := m.Backend.FetchOutputs(ctx, h, destination); err != nil {
		return backendErr("retrieve", it, event, kind, err)
	}

	if err := m.Mutator.Apply(it, iteration.SetRetrieved(event, kind, true)); err != nil {
		return err
	}
	m.record(ctx, it, event, kind, journal.ActionRetrieve, h.Name, job.Reposts)
	log.Printf("[INFO] retrieved %s (%s) to %s", label(it, event, kind), h, destination)
	return nil
}

// OutputFiles lists output files of a submitted job, name to path on the backend
func (m *Manager) OutputFiles(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind) (map[string]string, error) {
	h, err := m.submittedHandle("output files", it, event, kind)
	if err != nil {
		return nil, err
	}
	res, err := m.Backend.ListOutputFiles(ctx, h)
	if err != nil {
		return nil, backendErr("output files", it, event, kind, err)
	}
	return res, nil
}

// DeleteAll deletes jobs of kind for all events of the iteration on the backend. It is best
// effort: failures are logged and returned together after all deletions were tried.
// Records are kept as they are, historical iterations can be cleaned too.
func (m *Manager) DeleteAll(ctx context.Context, it *iteration.Iteration, kind enums.JobKind) error {
	type target struct {
		event string
		job   *iteration.JobRecord
	}
	targets := []target{}
	if kind == enums.JobKindSmoothing && it.Smoothing != nil {
		targets = append(targets, target{job: it.Smoothing}) // mono-batch, one job for all events
	} else {
		for _, event := range it.EventNames() {
			job, err := it.Job(event, kind)
			if err != nil {
				return iteration.Wrap("delete", it.Name, event, kind, err)
			}
			targets = append(targets, target{event: event, job: job})
		}
	}

	var errs *multierror.Error
	for _, t := range targets {
		if !t.job.Submitted {
			continue
		}
		h := m.handle(kind, t.job.Name)
		if err := m.Backend.Delete(ctx, h); err != nil {
			log.Printf("[WARN] can't delete %s (%s), %v", label(it, t.event, kind), h, err)
			errs = multierror.Append(errs, backendErr("delete", it, t.event, kind, err))
			continue
		}
		m.record(ctx, it, t.event, kind, journal.ActionDelete, h.Name, t.job.Reposts)
		log.Printf("[DEBUG] deleted %s (%s)", label(it, t.event, kind), h)
	}
	return errs.ErrorOrNil()
}

// Cancel deletes the job on the backend and resets its record to unsubmitted, reposts kept.
// No-op for an unsubmitted job.
func (m *Manager) Cancel(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind) error {
	job, err := m.job("cancel", it, event, kind)
	if err != nil {
		return err
	}
	if !job.Submitted {
		return nil
	}
	h := m.handle(kind, job.Name)
	if err := m.Backend.Delete(ctx, h); err != nil {
		return backendErr("cancel", it, event, kind, err)
	}
	if err := m.Mutator.Apply(it, iteration.ResetJob(event, kind)); err != nil {
		return err
	}
	m.record(ctx, it, event, kind, journal.ActionCancel, h.Name, job.Reposts)
	log.Printf("[INFO] cancelled %s (%s)", label(it, event, kind), h)
	return nil
}

// repost submits a new job replacing the one in the record
func (m *Manager) repost(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind,
	job *iteration.JobRecord, desc any) (Handle, error) {
	prev, reposts := job.Name, job.Reposts+1
	h, marker, err := m.launch(ctx, it, event, kind, desc)
	if err != nil {
		return Handle{}, err
	}
	err = m.Mutator.Apply(it,
		iteration.SetJobName(event, kind, h.Name),
		iteration.SetSubmitted(event, kind, true),
		iteration.SetRetrieved(event, kind, false),
		iteration.SetReposts(event, kind, reposts),
	)
	if err != nil {
		log.Printf("[ERROR] job %s of %s resubmitted but not persisted, intent marker %s kept", h, label(it, event, kind), marker)
		return Handle{}, err
	}
	m.finish(marker)
	m.record(ctx, it, event, kind, journal.ActionResubmit, h.Name, reposts)
	log.Printf("[INFO] resubmitted %s as %s, was %s, reposts %d", label(it, event, kind), h, prev, reposts)
	return h, nil
}

// launch marks the intent and submits the job to the backend
func (m *Manager) launch(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind, desc any) (Handle, string, error) {
	site := m.Resources.For(kind)
	lbl := label(it, event, kind)

	marker := ""
	if m.Intents != nil {
		fname, err := m.Intents.OnStart(intent.Intent{Iteration: it.Name, Event: event, Kind: kind, Label: lbl})
		if err != nil {
			log.Printf("[WARN] can't mark intent for %s, %v", lbl, err)
		}
		marker = fname
	}

	h, err := m.Backend.Submit(ctx, SubmitRequest{Description: desc, Site: site.Name, Ranks: site.Ranks,
		WallTime: site.WallTime, Label: lbl})
	if err != nil {
		m.finish(marker)
		return Handle{}, "", backendErr("submit", it, event, kind, err)
	}
	if h.Name == "" {
		m.finish(marker)
		return Handle{}, "", iteration.Errorf("submit", it.Name, event, kind, iteration.ErrBackendUnavailable,
			"backend returned empty job name")
	}
	if h.Site == "" {
		h.Site = site.Name
	}
	return h, marker, nil
}

// job resolves the record, refusing historical iterations
func (m *Manager) job(op string, it *iteration.Iteration, event string, kind enums.JobKind) (*iteration.JobRecord, error) {
	if it.ReadOnly() && op != "status" && op != "output files" {
		return nil, iteration.Errorf(op, it.Name, event, kind, iteration.ErrInvalidState, "historical record is read-only")
	}
	job, err := it.Job(event, kind)
	if err != nil {
		return nil, iteration.Wrap(op, it.Name, event, kind, err)
	}
	return job, nil
}

func (m *Manager) submittedHandle(op string, it *iteration.Iteration, event string, kind enums.JobKind) (Handle, error) {
	job, err := m.job(op, it, event, kind)
	if err != nil {
		return Handle{}, err
	}
	if !job.Submitted {
		return Handle{}, iteration.Errorf(op, it.Name, event, kind, iteration.ErrNotFound, "job not submitted")
	}
	return m.handle(kind, job.Name), nil
}

func (m *Manager) handle(kind enums.JobKind, name string) Handle {
	return Handle{Name: name, Site: m.Resources.For(kind).Name}
}

func (m *Manager) finish(marker string) {
	if m.Intents == nil || marker == "" {
		return
	}
	if err := m.Intents.OnFinish(marker); err != nil {
		log.Printf("[WARN] can't remove intent marker %s, %v", marker, err)
	}
}

func (m *Manager) record(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind,
	action journal.Action, job string, reposts int) {
	if m.Journal == nil {
		return
	}
	e := journal.Entry{Iteration: it.Name, Event: event, Kind: kind, Action: action, Job: job, Reposts: reposts}
	if err := m.Journal.Record(ctx, e); err != nil {
		log.Printf("[WARN] can't record %s of %s, %v", action, label(it, event, kind), err)
	}
}

// backendErr classifies backend failures, anything not already classified is transient
func backendErr(op string, it *iteration.Iteration, event string, kind enums.JobKind, err error) error {
	for _, class := range []error{iteration.ErrBackendUnavailable, iteration.ErrNotFound, iteration.ErrMissingOutput,
		iteration.ErrNotReady, context.Canceled, context.DeadlineExceeded} {
		if errors.Is(err, class) {
			return iteration.Wrap(op, it.Name, event, kind, err)
		}
	}
	return iteration.Wrap(op, it.Name, event, kind, fmt.Errorf("%w: %w", iteration.ErrBackendUnavailable, err))
}

func label(it *iteration.Iteration, event string, kind enums.JobKind) string {
	if event == "" {
		return fmt.Sprintf("%s/%s", it.Name, kind)
	}
	return fmt.Sprintf("%s/%s/%s", it.Name, event, kind)
}
