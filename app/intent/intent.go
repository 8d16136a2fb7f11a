// Package intent keeps submission markers. A marker is written before a job goes to the
// backend and removed once the job handle is persisted, so a marker left behind after a crash
// points at a job running remotely that no iteration record knows about.
package intent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
)

const markerExt = ".intent"

// Intent describes a submission in flight
type Intent struct {
	Iteration string        `yaml:"iteration" json:"iteration"`
	Event     string        `yaml:"event,omitempty" json:"event,omitempty"`
	Kind      enums.JobKind `yaml:"kind" json:"kind"`
	Label     string        `yaml:"label" json:"label"`
	Started   time.Time     `yaml:"started" json:"started"`
	Marker    string        `yaml:"-" json:"marker"`
}

// Markers keeps intent files in location
type Markers struct {
	location string
	enabled  bool
	seq      uint64
}

// New makes markers for given location. Disabled markers do nothing and list nothing.
func New(location string, enabled bool) *Markers {
	if enabled {
		if err := os.MkdirAll(location, 0o700); err != nil {
			log.Printf("[WARN] can't make %s, %s", location, err)
		}
	}
	return &Markers{location: location, enabled: enabled}
}

// OnStart writes marker for in as <ts>-<seq>.intent and returns its file name
func (m *Markers) OnStart(in Intent) (string, error) {
	if !m.enabled {
		return "", nil
	}
	if in.Started.IsZero() {
		in.Started = time.Now()
	}
	data, err := yaml.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("can't marshal intent %s: %w", in.Label, err)
	}
	seq := atomic.AddUint64(&m.seq, 1)
	fname := filepath.Join(m.location, fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), seq, markerExt))
	log.Printf("[DEBUG] create intent marker %s for %s", fname, in.Label)
	if err := os.WriteFile(fname, data, 0o600); err != nil {
		return "", fmt.Errorf("can't write intent marker: %w", err)
	}
	return fname, nil
}

// OnFinish removes marker, empty name ignored
func (m *Markers) OnFinish(fname string) error {
	if !m.enabled || fname == "" {
		return nil
	}
	log.Printf("[DEBUG] delete intent marker %s", fname)
	if err := os.Remove(fname); err != nil {
		return fmt.Errorf("can't delete intent marker: %w", err)
	}
	return nil
}

// List returns intents left behind, oldest first
func (m *Markers) List() (res []Intent) {
	res = []Intent{}
	if !m.enabled {
		return res
	}

	entries, err := os.ReadDir(m.location)
	if err != nil {
		log.Printf("[WARN] can't get intent list for %s, %s", m.location, err)
		return res
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), markerExt) {
			continue
		}
		fname := filepath.Join(m.location, entry.Name())
		data, err := os.ReadFile(fname) //nolint:gosec // file from our own directory
		if err != nil {
			log.Printf("[WARN] failed to read intent marker %s, %s", fname, err)
			continue
		}
		var in Intent
		if err := yaml.Unmarshal(data, &in); err != nil {
			log.Printf("[WARN] skip malformed intent marker %s, %s", fname, err)
			continue
		}
		in.Marker = fname
		res = append(res, in)
	}
	return res
}

func (m *Markers) String() string {
	return fmt.Sprintf("enabled:%v, location:%s", m.enabled, m.location)
}
