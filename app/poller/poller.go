// Package poller watches running iterations. A sweep asks the backend for live statuses of all
// submitted jobs not yet retrieved, concurrently, then applies changes one by one: retrieves
// complete jobs if enabled and reports failed ones. Jobs are never resubmitted here, this is
// left to the optimization driver.
package poller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
	"github.com/robfig/cron/v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
)

//go:generate moq -out mocks/jobs.go -pkg mocks -skip-ensure -fmt goimports . Jobs
//go:generate moq -out mocks/iterations.go -pkg mocks -skip-ensure -fmt goimports . Iterations
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// ErrRunning returned for a sweep of an iteration already being swept
var ErrRunning = errors.New("sweep already running")

// Jobs queries and retrieves jobs, i.e. lifecycle.Manager
type Jobs interface {
	Status(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind) (enums.Status, error)
	Retrieve(ctx context.Context, it *iteration.Iteration, event string, kind enums.JobKind, destination string) error
}

// Iterations loads records and tells where outputs go, i.e. project.Project
type Iterations interface {
	Iteration(name string) (*iteration.Iteration, error)
	OutputDir(it *iteration.Iteration, event string, kind enums.JobKind) string
}

// Notifier delivers failure and completion messages
type Notifier interface {
	Send(ctx context.Context, subj, text string) error
	IsOnFailure() bool
	IsOnCompletion() bool
	MakeFailureHTML(iter string, jobs []string) (string, error)
	MakeCompletionHTML(iter string, retrieved int) (string, error)
}

// Repeater repeats failed function
type Repeater interface {
	Do(ctx context.Context, fun func() error, errors ...error) (err error)
}

// Poller runs sweeps on schedule or on demand
type Poller struct {
	Jobs          Jobs
	Iterations    Iterations
	Notifier      Notifier
	Repeater      Repeater
	DeDup         *DeDup
	Concurrency   int
	AutoRetrieve  bool
	NotifyTimeout time.Duration

	// Targets returns names of iterations to sweep on schedule
	Targets func() ([]string, error)

	lock     sync.Mutex
	notified map[string]bool // failed job names already reported
}

// JobStatus is the outcome of one job in a sweep
type JobStatus struct {
	Event     string        `json:"event,omitempty"`
	Kind      enums.JobKind `json:"kind"`
	Job       string        `json:"job"`
	Status    enums.Status  `json:"status"`
	Retrieved bool          `json:"retrieved"`
	Error     string        `json:"error,omitempty"`
}

// Report of a sweep
type Report struct {
	Iteration string      `json:"iteration"`
	Jobs      []JobStatus `json:"jobs"`
	Retrieved int         `json:"retrieved"`
	Failed    int         `json:"failed"`
	Errors    int         `json:"errors"`
	Finished  bool        `json:"finished"` // nothing submitted is left unretrieved
}

type target struct {
	event string
	kind  enums.JobKind
	job   string
}

// Run sweeps targets on schedule spec until ctx is canceled, the first sweep starts right away
func (p *Poller) Run(ctx context.Context, spec string) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("can't parse schedule %s: %w", spec, err)
	}
	c := cron.New()
	c.Schedule(sched, cron.FuncJob(func() { p.sweepTargets(ctx) }))
	log.Printf("[INFO] poller started, schedule %q, first scheduled: %s", spec, sched.Next(time.Now()).Format(time.RFC3339))

	p.sweepTargets(ctx)
	c.Start()
	<-ctx.Done()
	log.Print("[DEBUG] terminate poller")
	<-c.Stop().Done()
	return nil
}

func (p *Poller) sweepTargets(ctx context.Context) {
	names, err := p.Targets()
	if err != nil {
		log.Printf("[WARN] can't get iterations to poll, %v", err)
		return
	}
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		rep, err := p.Sweep(ctx, name)
		if err != nil {
			log.Printf("[WARN] sweep of %s failed, %v", name, err)
			continue
		}
		log.Printf("[INFO] swept %s, jobs:%d, retrieved:%d, failed:%d, errors:%d, finished:%v",
			name, len(rep.Jobs), rep.Retrieved, rep.Failed, rep.Errors, rep.Finished)
	}
}

// Sweep checks all outstanding jobs of the iteration once. Overlapping sweeps of the same
// iteration are refused.
func (p *Poller) Sweep(ctx context.Context, name string) (Report, error) {
	if p.DeDup != nil {
		if !p.DeDup.Add(name) {
			return Report{}, fmt.Errorf("%s: %w", name, ErrRunning)
		}
		defer p.DeDup.Remove(name)
	}

	it, err := p.Iterations.Iteration(name)
	if err != nil {
		return Report{}, err
	}

	targets := outstanding(it)
	res := Report{Iteration: name, Jobs: make([]JobStatus, len(targets))}
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// statuses are read concurrently, each goroutine writes its own slot
	gr := syncs.NewSizedGroup(concurrency)
	for i, t := range targets {
		gr.Go(func(context.Context) {
			st, err := p.status(ctx, it, t)
			res.Jobs[i] = JobStatus{Event: t.event, Kind: t.kind, Job: t.job, Status: st}
			if err != nil {
				res.Jobs[i].Error = err.Error()
			}
		})
	}
	gr.Wait()

	failed := []string{}
	for i, js := range res.Jobs {
		switch {
		case js.Error != "":
			res.Errors++
		case js.Status == enums.StatusFailed:
			res.Failed++
			if p.firstReport(js.Job) {
				failed = append(failed, jobLabel(js))
			}
		case js.Status == enums.StatusComplete && p.AutoRetrieve:
			dest := p.Iterations.OutputDir(it, js.Event, js.Kind)
			if err := p.Jobs.Retrieve(ctx, it, js.Event, js.Kind, dest); err != nil {
				log.Printf("[WARN] can't retrieve %s of %s, %v", jobLabel(js), name, err)
				res.Jobs[i].Error = err.Error()
				res.Errors++
				continue
			}
			res.Jobs[i].Retrieved = true
			res.Retrieved++
		}
	}

	res.Finished = len(outstanding(it)) == 0
	p.notify(ctx, name, failed, res)
	return res, nil
}

// status asks for the live status, transient backend errors are repeated
func (p *Poller) status(ctx context.Context, it *iteration.Iteration, t target) (enums.Status, error) {
	if p.Repeater == nil {
		return p.Jobs.Status(ctx, it, t.event, t.kind)
	}
	var st enums.Status
	var final error
	err := p.Repeater.Do(ctx, func() error {
		s, err := p.Jobs.Status(ctx, it, t.event, t.kind)
		if err != nil && errors.Is(err, iteration.ErrBackendUnavailable) {
			return err
		}
		st, final = s, err
		return nil
	})
	if err != nil {
		return enums.StatusUnknown, err
	}
	return st, final
}

func (p *Poller) notify(ctx context.Context, name string, failed []string, rep Report) {
	if p.Notifier == nil || reflect.ValueOf(p.Notifier).IsNil() {
		return
	}
	timeout := p.NotifyTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(failed) > 0 && p.Notifier.IsOnFailure() {
		msg, err := p.Notifier.MakeFailureHTML(name, failed)
		if err != nil {
			log.Printf("[WARN] can't make failure message, %v", err)
		} else if err := p.Notifier.Send(ctx, fmt.Sprintf("%d jobs of %s failed", len(failed), name), msg); err != nil {
			log.Printf("[WARN] failed to send failure notification, %v", err)
		}
	}

	if rep.Finished && rep.Retrieved > 0 && p.Notifier.IsOnCompletion() {
		msg, err := p.Notifier.MakeCompletionHTML(name, rep.Retrieved)
		if err != nil {
			log.Printf("[WARN] can't make completion message, %v", err)
		} else if err := p.Notifier.Send(ctx, fmt.Sprintf("iteration %s completed", name), msg); err != nil {
			log.Printf("[WARN] failed to send completion notification, %v", err)
		}
	}
}

// firstReport tells if failure of job wasn't reported yet
func (p *Poller) firstReport(job string) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.notified == nil {
		p.notified = map[string]bool{}
	}
	if p.notified[job] {
		return false
	}
	p.notified[job] = true
	return true
}

// outstanding lists submitted jobs not retrieved yet, shared mono-batch smoothing once
func outstanding(it *iteration.Iteration) []target {
	res := []target{}
	add := func(event string, kind enums.JobKind, j *iteration.JobRecord) {
		if j.State() == iteration.JobSubmitted {
			res = append(res, target{event: event, kind: kind, job: j.Name})
		}
	}
	for _, kind := range it.Kinds() {
		if kind == enums.JobKindSmoothing && it.Smoothing != nil {
			add("", kind, it.Smoothing)
			continue
		}
		for _, ev := range it.EventNames() {
			if j, err := it.Job(ev, kind); err == nil {
				add(ev, kind, j)
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].event < res[j].event })
	return res
}

func jobLabel(js JobStatus) string {
	if js.Event == "" {
		return js.Kind.String()
	}
	return js.Event + "/" + js.Kind.String()
}
