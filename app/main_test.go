package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/invflow/app/backend/spool"
	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/lifecycle"
	"github.com/umputun/invflow/app/poller"
)

const projectFile = `inversion:
  mode: mini-batch
  meshes: mono-mesh
hpc:
  wave_propagation:
    site: daint
    ranks: 24
    wall_time: 1h
  diffusion:
    site: eiger
    ranks: 4
    wall_time: 30m
`

func Test_makeHostName(t *testing.T) {
	opts.Notify.HostName = "test"
	assert.Equal(t, "test", makeHostName())

	opts.Notify.HostName = ""
	exp, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, exp, makeHostName())
}

func Test_makeNotifier(t *testing.T) {
	opts.Notify.EnabledCompletion, opts.Notify.EnabledFailure = false, false
	opts.Notify.FromEmail = ""
	opts.Notify.ToEmails = []string{"test@example.com"}
	assert.Nil(t, makeNotifier())

	opts.Notify.EnabledFailure = true
	notif := makeNotifier()
	require.NotNil(t, notif)
	assert.True(t, notif.IsOnFailure())
	assert.False(t, notif.IsOnCompletion())
	assert.Equal(t, "invflow@"+makeHostName(), opts.Notify.FromEmail, "from set based on hostname")

	opts.Notify.ToEmails = nil
	assert.Nil(t, makeNotifier(), "no destinations")
	opts.Notify.EnabledFailure = false
}

func Test_setupLogs(t *testing.T) {
	opts.Log.Enabled = false
	assert.Equal(t, os.Stderr, setupLogs())

	tmpfile := filepath.Join(t.TempDir(), "invflow.log")
	opts.Log.Enabled = true
	opts.Log.Filename = tmpfile
	opts.Log.MaxSize = 100
	opts.Log.MaxBackups = 7
	opts.Log.MaxAge = 0
	opts.Log.EnabledCompress = false
	defer func() {
		opts.Log.Enabled = false
		setupLogs()
	}()

	out := setupLogs()
	require.IsType(t, &lumberjack.Logger{}, out)
	logger := out.(*lumberjack.Logger)
	assert.Equal(t, tmpfile, logger.Filename)
	assert.Equal(t, 100, logger.MaxSize)
	assert.Equal(t, 7, logger.MaxBackups)
	assert.Equal(t, 0, logger.MaxAge)
	assert.False(t, logger.Compress)
}

func Test_jobArgs(t *testing.T) {
	tbl := []struct {
		args  jobArgs
		event string
		kind  enums.JobKind
		err   bool
	}{
		{jobArgs{Iteration: "it0000_model", Event: "E1", Kind: "forward"}, "E1", enums.JobKindForward, false},
		{jobArgs{Iteration: "it0000_model", Event: "-", Kind: "smoothing"}, "", enums.JobKindSmoothing, false},
		{jobArgs{Iteration: "it0000_model", Event: "E1", Kind: "backward"}, "", enums.JobKindUnknown, true},
	}
	for i, tt := range tbl {
		event, kind, err := tt.args.parse()
		if tt.err {
			assert.Error(t, err, "case %d", i)
			continue
		}
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, tt.event, event, "case %d", i)
		assert.Equal(t, tt.kind, kind, "case %d", i)
	}
}

func Test_readDescription(t *testing.T) {
	res, err := readDescription("")
	require.NoError(t, err)
	assert.Nil(t, res)

	file := filepath.Join(t.TempDir(), "desc.yml")
	require.NoError(t, os.WriteFile(file, []byte("model: m1\nperiod: 40\n"), 0o600))
	res, err = readDescription(file)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"model": "m1", "period": 40}, res)

	require.NoError(t, os.WriteFile(file, []byte("model: [m1\n"), 0o600))
	_, err = readDescription(file)
	require.Error(t, err)

	_, err = readDescription("/no/such/file.yml")
	require.Error(t, err)
}

func Test_schemaCmd(t *testing.T) {
	buf := captureStdout(t)
	require.NoError(t, (&schemaCmd{}).Execute(nil))
	res := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, "invflow project file", res["title"])
}

func Test_commands(t *testing.T) {
	dir := t.TempDir()
	opts.ProjectFile = filepath.Join(dir, "invflow.yml")
	require.NoError(t, os.WriteFile(opts.ProjectFile, []byte(projectFile), 0o600))
	descFile := filepath.Join(dir, "desc.yml")
	require.NoError(t, os.WriteFile(descFile, []byte("model: m1\n"), 0o600))
	buf := captureStdout(t)

	// create
	create := &createCmd{Events: []string{"E1", "E2"}}
	create.Args.Iteration = "it0000_model"
	require.NoError(t, create.Execute(nil))
	assert.Contains(t, buf.String(), "it0000_model: 2 events, mini-batch mono-mesh")
	assert.Contains(t, buf.String(), "forward    unsubmitted:2 submitted:0 retrieved:0 reposts:0")
	buf.Reset()

	// submit, prints job name
	submit := &submitCmd{Desc: descFile, Args: jobArgs{Iteration: "it0000_model", Event: "E1", Kind: "forward"}}
	require.NoError(t, submit.Execute(nil))
	jobName := strings.TrimSpace(buf.String())
	assert.Len(t, jobName, 36)
	buf.Reset()

	err := submit.Execute(nil)
	require.ErrorIs(t, err, iteration.ErrAlreadySubmitted, "pending job is not submitted again")

	// not complete yet
	retrieve := &retrieveCmd{Args: jobArgs{Iteration: "it0000_model", Event: "E1", Kind: "forward"}}
	require.ErrorIs(t, retrieve.Execute(nil), iteration.ErrNotReady)

	// complete on the site with one output file
	sp, err := spool.New(filepath.Join(dir, "spool"))
	require.NoError(t, err)
	h := lifecycle.Handle{Name: jobName, Site: "daint"}
	require.NoError(t, sp.SetStatus(h, enums.StatusComplete))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spool", "daint", jobName, "outputs", "synthetics.h5"), []byte("data"), 0o600))

	files := &filesCmd{Args: jobArgs{Iteration: "it0000_model", Event: "E1", Kind: "forward"}}
	require.NoError(t, files.Execute(nil))
	assert.True(t, strings.HasPrefix(buf.String(), "synthetics.h5\t"))
	buf.Reset()

	// live status
	status := &statusCmd{Live: true}
	status.Args.Iteration = "it0000_model"
	require.NoError(t, status.Execute(nil))
	assert.Contains(t, buf.String(), "forward    unsubmitted:1 submitted:1 retrieved:0 reposts:0")
	assert.Contains(t, buf.String(), "E1/forward")
	assert.Contains(t, buf.String(), "complete")
	buf.Reset()

	// retrieve to project outputs
	require.NoError(t, retrieve.Execute(nil))
	dest := filepath.Join(dir, "OUTPUTS", "it0000_model", "E1", "forward")
	assert.Equal(t, dest+"\n", buf.String())
	assert.FileExists(t, filepath.Join(dest, "synthetics.h5"))
	buf.Reset()

	// sweep, nothing outstanding
	sweep := &sweepCmd{}
	sweep.Args.Iteration = "it0000_model"
	require.NoError(t, sweep.Execute(nil))
	rep := poller.Report{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, "it0000_model", rep.Iteration)
	assert.True(t, rep.Finished)
	assert.Empty(t, rep.Jobs)
	buf.Reset()

	// control group
	cg := &controlGroupCmd{}
	cg.Args.Iteration = "it0000_model"
	cg.Args.Events = []string{"E2", "E1"}
	require.NoError(t, cg.Execute(nil))
	assert.Equal(t, "E1 E2\n", buf.String())
	buf.Reset()

	// history
	hist := &historyCmd{}
	hist.Args.Iteration = "it0000_model"
	require.NoError(t, hist.Execute(nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "submit it0000_model/E1/forward "+jobName)
	assert.Contains(t, lines[1], "retrieve it0000_model/E1/forward "+jobName)
	buf.Reset()

	// intents, none left
	require.NoError(t, (&intentsCmd{}).Execute(nil))
	assert.Empty(t, buf.String())

	// cleanup removes the job from the spool, record stays
	cleanup := &cleanupCmd{}
	cleanup.Args.Iteration, cleanup.Args.Kind = "it0000_model", "forward"
	require.NoError(t, cleanup.Execute(nil))
	assert.NoDirExists(t, filepath.Join(dir, "spool", "daint", jobName))

	cleanup.Args.Kind = "backward"
	require.Error(t, cleanup.Execute(nil))

	// cancel of unsubmitted job does nothing, of job deleted on the site fails
	cancel := &cancelCmd{Args: jobArgs{Iteration: "it0000_model", Event: "E2", Kind: "forward"}}
	require.NoError(t, cancel.Execute(nil))
	cancel.Args.Event = "E1"
	require.ErrorIs(t, cancel.Execute(nil), iteration.ErrNotFound)

	opts.ProjectFile = filepath.Join(dir, "missing.yml")
	require.ErrorIs(t, status.Execute(nil), iteration.ErrConfiguration)
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	orig := stdout
	stdout = buf
	t.Cleanup(func() { stdout = orig })
	return buf
}
