package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	gonotify "github.com/go-pkgz/notify"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/invflow/app/backend/spool"
	"github.com/umputun/invflow/app/config"
	"github.com/umputun/invflow/app/notify"
	"github.com/umputun/invflow/app/project"
)

type options struct {
	ProjectFile string `short:"f" long:"file" env:"INVFLOW_FILE" default:"invflow.yml" description:"project file"`
	Dbg         bool   `long:"dbg" env:"INVFLOW_DEBUG" description:"debug mode"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"invflow.log" description:"file name to log to"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"maximum size in megabytes of the log file before it gets rotated"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"maximum number of days to retain old log files"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"maximum number of old log files to retain"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"enable compression of rotated log files"`
	} `group:"log" namespace:"log" env-namespace:"INVFLOW_LOG"`

	Notify struct {
		EnabledFailure     bool          `long:"enabled-failure" env:"ENABLED_FAILURE" description:"notify about failed jobs"`
		EnabledCompletion  bool          `long:"enabled-complete" env:"ENABLED_COMPLETE" description:"notify about completed iterations"`
		FailureTemplate    string        `long:"failure-template" env:"FAILURE_TEMPLATE" description:"failure message template file"`
		CompletionTemplate string        `long:"completion-template" env:"COMPLETION_TEMPLATE" description:"completion message template file"`
		SMTPHost           string        `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host"`
		SMTPPort           int           `long:"smtp-port" env:"SMTP_PORT" default:"25" description:"SMTP port"`
		SMTPUsername       string        `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP user name"`
		SMTPPassword       string        `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
		SMTPTLS            bool          `long:"smtp-tls" env:"SMTP_TLS" description:"enable SMTP TLS"`
		SMTPTimeOut        time.Duration `long:"smtp-timeout" env:"SMTP_TIMEOUT" default:"10s" description:"SMTP TCP connection timeout"`
		FromEmail          string        `long:"from" env:"FROM" description:"SMTP from email"`
		ToEmails           []string      `long:"to" env:"TO" description:"SMTP to email(s)" env-delim:","`
		HostName           string        `long:"host" env:"HOSTNAME" description:"host name running invflow"`
		TimeOut            time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"notification timeout"`
	} `group:"notify" namespace:"notify" env-namespace:"INVFLOW_NOTIFY"`

	Create       createCmd       `command:"create" description:"create iteration record"`
	Status       statusCmd       `command:"status" description:"show jobs of iteration"`
	Submit       submitCmd       `command:"submit" description:"submit job"`
	Resubmit     resubmitCmd     `command:"resubmit" description:"submit job again, counting a repost"`
	Retrieve     retrieveCmd     `command:"retrieve" description:"retrieve outputs of complete job"`
	Cancel       cancelCmd       `command:"cancel" description:"cancel submitted job"`
	Files        filesCmd        `command:"files" description:"list output files of job"`
	Cleanup      cleanupCmd      `command:"cleanup" description:"delete all jobs of a kind from the backend"`
	ControlGroup controlGroupCmd `command:"control-group" description:"set new control group of iteration"`
	History      historyCmd      `command:"history" description:"show recorded job transitions"`
	Intents      intentsCmd      `command:"intents" description:"list interrupted submissions"`
	Sweep        sweepCmd        `command:"sweep" description:"check outstanding jobs of iteration once"`
	Watch        watchCmd        `command:"watch" description:"check outstanding jobs on schedule"`
	Schema       schemaCmd       `command:"schema" description:"print json schema of project file"`
}

var opts options

var revision = "unknown"

func main() {
	fmt.Fprintf(os.Stderr, "invflow %s\n", revision)

	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogs()
		return cmd.Execute(args)
	}

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	if _, err := p.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// withProject runs fn on the project opened from the project file, ctx canceled on SIGTERM and SIGINT
func withProject(fn func(ctx context.Context, prj *project.Project) error) error {
	cfg, err := config.Load(opts.ProjectFile)
	if err != nil {
		return err
	}
	backend, err := spool.New(cfg.Paths.Spool)
	if err != nil {
		return err
	}
	prj, err := project.Open(cfg, backend)
	if err != nil {
		return err
	}
	defer func() {
		if err := prj.Close(); err != nil {
			log.Printf("[WARN] can't close project, %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals(cancel)
	return fn(ctx, prj)
}

func makeNotifier() *notify.Service {
	if !opts.Notify.EnabledFailure && !opts.Notify.EnabledCompletion {
		return nil
	}
	if opts.Notify.FromEmail == "" {
		opts.Notify.FromEmail = "invflow@" + makeHostName()
	}

	return notify.NewService(
		notify.Params{
			EnabledFailure:     opts.Notify.EnabledFailure,
			EnabledCompletion:  opts.Notify.EnabledCompletion,
			FailureTemplate:    opts.Notify.FailureTemplate,
			CompletionTemplate: opts.Notify.CompletionTemplate,
			Host:               makeHostName(),
		},
		notify.SendersParams{
			SMTP: gonotify.SMTPParams{
				Host:        opts.Notify.SMTPHost,
				Port:        opts.Notify.SMTPPort,
				TLS:         opts.Notify.SMTPTLS,
				Username:    opts.Notify.SMTPUsername,
				Password:    opts.Notify.SMTPPassword,
				TimeOut:     opts.Notify.SMTPTimeOut,
				ContentType: "text/html",
				Charset:     "UTF-8",
			},
			FromEmail: opts.Notify.FromEmail,
			ToEmails:  opts.Notify.ToEmails,
		},
	)
}

func makeHostName() string {
	if opts.Notify.HostName != "" {
		return opts.Notify.HostName
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// setupLogs sends logs to stderr or to the rotated file, stdout is left for command output
func setupLogs() io.Writer {
	var out io.Writer = os.Stderr
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxAge:     opts.Log.MaxAge,
			MaxBackups: opts.Log.MaxBackups,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	if opts.Dbg {
		log.Setup(log.Out(out), log.Err(out), log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return out
	}
	log.Setup(log.Out(out), log.Err(out), log.Msec)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			cancel() // terminate on SIGTERM and SIGINT
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
