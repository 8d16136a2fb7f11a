package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/config"
	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/poller"
	"github.com/umputun/invflow/app/project"
	"github.com/umputun/invflow/app/web"
)

var stdout io.Writer = os.Stdout

// jobArgs address a single job, "-" as event for the shared mono-batch smoothing
type jobArgs struct {
	Iteration string `positional-arg-name:"iteration" required:"yes"`
	Event     string `positional-arg-name:"event" required:"yes"`
	Kind      string `positional-arg-name:"kind" required:"yes"`
}

func (a jobArgs) parse() (event string, kind enums.JobKind, err error) {
	if kind, err = enums.ParseJobKind(a.Kind); err != nil {
		return "", kind, err
	}
	if a.Event == "-" {
		return "", kind, nil
	}
	return a.Event, kind, nil
}

type createCmd struct {
	Events []string `short:"e" long:"event" description:"events of iteration, taken from catalog if not set"`
	Args   struct {
		Iteration string `positional-arg-name:"iteration" required:"yes"`
	} `positional-args:"yes"`
}

// Execute makes the record and starts the iteration in the control group ledger
func (c *createCmd) Execute(_ []string) error {
	return withProject(func(_ context.Context, prj *project.Project) error {
		it, err := prj.CreateIteration(c.Args.Iteration, c.Events)
		if err != nil {
			return err
		}
		return printSummary(prj, it)
	})
}

type statusCmd struct {
	Live bool `short:"l" long:"live" description:"ask backend for status of submitted jobs"`
	Args struct {
		Iteration string `positional-arg-name:"iteration" required:"yes"`
	} `positional-args:"yes"`
}

// Execute prints job counts and, if live, backend statuses of outstanding jobs
func (c *statusCmd) Execute(_ []string) error {
	return withProject(func(ctx context.Context, prj *project.Project) error {
		it, err := prj.Historical(c.Args.Iteration)
		if err != nil {
			return err
		}
		if err := printSummary(prj, it); err != nil {
			return err
		}
		if !c.Live {
			return nil
		}
		rep, err := (&poller.Poller{Jobs: prj.Manager, Iterations: frozen{it}, Concurrency: prj.Config.Poller.Concurrency,
			Repeater: makeRepeater(prj.Config.Poller.Retry)}).Sweep(ctx, it.Name)
		if err != nil {
			return err
		}
		for _, js := range rep.Jobs {
			line := fmt.Sprintf("  %-24s %-10s %s", js.Event+"/"+js.Kind.String(), js.Status, js.Job)
			if js.Error != "" {
				line += " error: " + js.Error
			}
			fmt.Fprintln(stdout, line)
		}
		return nil
	})
}

type submitCmd struct {
	Desc string  `short:"d" long:"desc" description:"simulation description file (yaml)"`
	Args jobArgs `positional-args:"yes"`
}

// Execute submits the job
func (c *submitCmd) Execute(_ []string) error {
	return withJob(c.Args, func(ctx context.Context, prj *project.Project, it *iteration.Iteration, event string, kind enums.JobKind) error {
		desc, err := readDescription(c.Desc)
		if err != nil {
			return err
		}
		h, err := prj.Manager.Submit(ctx, it, event, kind, desc)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, h.Name)
		return nil
	})
}

type resubmitCmd struct {
	Desc string  `short:"d" long:"desc" description:"simulation description file (yaml)"`
	Args jobArgs `positional-args:"yes"`
}

// Execute submits the job again
func (c *resubmitCmd) Execute(_ []string) error {
	return withJob(c.Args, func(ctx context.Context, prj *project.Project, it *iteration.Iteration, event string, kind enums.JobKind) error {
		desc, err := readDescription(c.Desc)
		if err != nil {
			return err
		}
		h, err := prj.Manager.Resubmit(ctx, it, event, kind, desc)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, h.Name)
		return nil
	})
}

type retrieveCmd struct {
	Dest string  `long:"dest" description:"destination directory, project outputs if not set"`
	Args jobArgs `positional-args:"yes"`
}

// Execute copies outputs of the complete job and marks it retrieved
func (c *retrieveCmd) Execute(_ []string) error {
	return withJob(c.Args, func(ctx context.Context, prj *project.Project, it *iteration.Iteration, event string, kind enums.JobKind) error {
		dest := c.Dest
		if dest == "" {
			dest = prj.OutputDir(it, event, kind)
		}
		if err := prj.Manager.Retrieve(ctx, it, event, kind, dest); err != nil {
			return err
		}
		fmt.Fprintln(stdout, dest)
		return nil
	})
}

type cancelCmd struct {
	Args jobArgs `positional-args:"yes"`
}

// Execute cancels the job
func (c *cancelCmd) Execute(_ []string) error {
	return withJob(c.Args, func(ctx context.Context, prj *project.Project, it *iteration.Iteration, event string, kind enums.JobKind) error {
		return prj.Manager.Cancel(ctx, it, event, kind)
	})
}

type filesCmd struct {
	Args jobArgs `positional-args:"yes"`
}

// Execute lists output files of the job
func (c *filesCmd) Execute(_ []string) error {
	return withJob(c.Args, func(ctx context.Context, prj *project.Project, it *iteration.Iteration, event string, kind enums.JobKind) error {
		files, err := prj.Manager.OutputFiles(ctx, it, event, kind)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(stdout, "%s\t%s\n", name, files[name])
		}
		return nil
	})
}

type cleanupCmd struct {
	Args struct {
		Iteration string `positional-arg-name:"iteration" required:"yes"`
		Kind      string `positional-arg-name:"kind" required:"yes"`
	} `positional-args:"yes"`
}

// Execute deletes all jobs of kind on the backend, records stay as they are
func (c *cleanupCmd) Execute(_ []string) error {
	return withProject(func(ctx context.Context, prj *project.Project) error {
		kind, err := enums.ParseJobKind(c.Args.Kind)
		if err != nil {
			return err
		}
		it, err := prj.Historical(c.Args.Iteration)
		if err != nil {
			return err
		}
		return prj.Manager.DeleteAll(ctx, it, kind)
	})
}

type controlGroupCmd struct {
	Args struct {
		Iteration string   `positional-arg-name:"iteration" required:"yes"`
		Events    []string `positional-arg-name:"event"`
	} `positional-args:"yes"`
}

// Execute sets the new control group in the record and in the ledger
func (c *controlGroupCmd) Execute(_ []string) error {
	return withProject(func(_ context.Context, prj *project.Project) error {
		it, err := prj.Iteration(c.Args.Iteration)
		if err != nil {
			return err
		}
		if err := prj.CommitControlGroup(it, c.Args.Events); err != nil {
			return err
		}
		fmt.Fprintln(stdout, strings.Join(it.NewControlGroup, " "))
		return nil
	})
}

type historyCmd struct {
	Args struct {
		Iteration string `positional-arg-name:"iteration"`
	} `positional-args:"yes"`
}

// Execute prints journal entries, of all iterations if none set
func (c *historyCmd) Execute(_ []string) error {
	return withProject(func(ctx context.Context, prj *project.Project) error {
		entries, err := prj.History(ctx, c.Args.Iteration)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(stdout, "%s %s %s/%s/%s %s reposts:%d\n", e.At.Format(time.RFC3339), e.Action,
				e.Iteration, e.Event, e.Kind, e.Job, e.Reposts)
		}
		return nil
	})
}

type intentsCmd struct{}

// Execute lists submissions interrupted before their job was recorded
func (c *intentsCmd) Execute(_ []string) error {
	return withProject(func(_ context.Context, prj *project.Project) error {
		for _, in := range prj.Intents() {
			fmt.Fprintf(stdout, "%s %s %s\n", in.Started.Format(time.RFC3339), in.Label, in.Marker)
		}
		return nil
	})
}

type sweepCmd struct {
	Args struct {
		Iteration string `positional-arg-name:"iteration" required:"yes"`
	} `positional-args:"yes"`
}

// Execute checks outstanding jobs once, retrieving complete ones if the project enables it
func (c *sweepCmd) Execute(_ []string) error {
	return withProject(func(ctx context.Context, prj *project.Project) error {
		rep, err := makePoller(prj).Sweep(ctx, c.Args.Iteration)
		if err != nil {
			return err
		}
		return printJSON(rep)
	})
}

type watchCmd struct {
	WebAddress   string  `long:"web" env:"INVFLOW_WEB" description:"status api address, disabled if not set"`
	PasswordHash string  `long:"password-hash" env:"INVFLOW_PASSWORD_HASH" description:"bcrypt hash for api basic auth"`
	SweepLimit   float64 `long:"sweep-limit" env:"INVFLOW_SWEEP_LIMIT" default:"1" description:"api sweep requests per second"`
}

// Execute sweeps active iterations on schedule, with the status api if enabled
func (c *watchCmd) Execute(_ []string) error {
	return withProject(func(ctx context.Context, prj *project.Project) error {
		pl := makePoller(prj)
		pl.Targets = prj.Active

		if c.WebAddress != "" {
			srv, err := web.New(web.Config{Project: prj, Sweeper: pl, Version: revision,
				PasswordHash: c.PasswordHash, SweepLimit: c.SweepLimit})
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Run(ctx, c.WebAddress); err != nil {
					log.Printf("[WARN] web server terminated, %v", err)
				}
			}()
		}
		return pl.Run(ctx, prj.Config.Poller.Schedule)
	})
}

type schemaCmd struct{}

// Execute prints json schema of the project file
func (c *schemaCmd) Execute(_ []string) error {
	return printJSON(config.Schema())
}

func withJob(args jobArgs, fn func(ctx context.Context, prj *project.Project, it *iteration.Iteration,
	event string, kind enums.JobKind) error) error {
	event, kind, err := args.parse()
	if err != nil {
		return err
	}
	return withProject(func(ctx context.Context, prj *project.Project) error {
		it, err := prj.Iteration(args.Iteration)
		if err != nil {
			return err
		}
		return fn(ctx, prj, it, event, kind)
	})
}

func makePoller(prj *project.Project) *poller.Poller {
	res := &poller.Poller{
		Jobs:          prj.Manager,
		Iterations:    prj,
		Repeater:      makeRepeater(prj.Config.Poller.Retry),
		DeDup:         poller.NewDeDup(),
		Concurrency:   prj.Config.Poller.Concurrency,
		AutoRetrieve:  prj.Config.Poller.AutoRetrieve,
		NotifyTimeout: opts.Notify.TimeOut,
	}
	if n := makeNotifier(); n != nil {
		res.Notifier = n
	}
	return res
}

func makeRepeater(r config.Retry) *repeater.Repeater {
	return repeater.New(&strategy.Backoff{Repeats: r.Attempts, Duration: r.Duration, Factor: r.Factor, Jitter: r.Jitter})
}

// frozen serves an already loaded iteration to the poller, nothing gets retrieved with it
type frozen struct{ it *iteration.Iteration }

func (f frozen) Iteration(string) (*iteration.Iteration, error) { return f.it, nil }

func (f frozen) OutputDir(*iteration.Iteration, string, enums.JobKind) string { return "" }

// readDescription loads yaml simulation description, nil if no file set
func readDescription(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // file set by the user
	if err != nil {
		return nil, fmt.Errorf("can't read description: %w", err)
	}
	var res map[string]any
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("can't parse description %s: %w", path, err)
	}
	return res, nil
}

func printSummary(prj *project.Project, it *iteration.Iteration) error {
	s := project.Summarize(it)
	fmt.Fprintf(stdout, "%s: %d events, %s %s\n", s.Iteration, s.Events, prj.Config.Inversion.Mode, prj.Config.Inversion.Meshes)
	for _, kind := range it.Kinds() {
		c := s.Jobs[kind.String()]
		fmt.Fprintf(stdout, "  %-10s unsubmitted:%d submitted:%d retrieved:%d reposts:%d\n",
			kind, c.Unsubmitted, c.Submitted, c.Retrieved, c.Reposts)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
