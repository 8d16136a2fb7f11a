package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/invflow/app/enums"
)

//go:generate moq -out mocks/backend.go -pkg mocks -skip-ensure -fmt goimports . Backend

// Backend is a compute job backend running simulations on remote sites
type Backend interface {
	Submit(ctx context.Context, req SubmitRequest) (Handle, error)
	Status(ctx context.Context, h Handle, forceRefresh bool) (enums.Status, error)
	FetchOutputs(ctx context.Context, h Handle, destination string) error
	Delete(ctx context.Context, h Handle) error
	ListOutputFiles(ctx context.Context, h Handle) (map[string]string, error)
}

// Handle identifies a job on the backend. Name is assigned by the backend on submission.
type Handle struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

func (h Handle) String() string { return h.Name + "@" + h.Site }

// SubmitRequest is what the backend needs to start a job
type SubmitRequest struct {
	Description any // opaque simulation description made by the caller
	Site        string
	Ranks       int
	WallTime    time.Duration
	Label       string // human readable "iteration/event/kind", not a backend name
}

// Site is where and how big jobs run
type Site struct {
	Name     string        `yaml:"site" json:"site" jsonschema:"required"`
	Ranks    int           `yaml:"ranks" json:"ranks" jsonschema:"required,minimum=1"`
	WallTime time.Duration `yaml:"wall_time" json:"wall_time" jsonschema:"required,type=string,example=2h30m"`
}

// Resources maps job kinds to sites. Forward and adjoint jobs run on the wave propagation
// site, adjoint ones get twice the wall time. Smoothing runs on the diffusion site.
type Resources struct {
	WavePropagation Site
	Diffusion       Site
}

// For returns site for job kind
func (r Resources) For(kind enums.JobKind) Site {
	switch kind {
	case enums.JobKindAdjoint:
		res := r.WavePropagation
		res.WallTime *= 2
		return res
	case enums.JobKindSmoothing:
		return r.Diffusion
	default:
		return r.WavePropagation
	}
}

// Validate checks both sites are set
func (r Resources) Validate() error {
	for name, s := range map[string]Site{"wave propagation": r.WavePropagation, "diffusion": r.Diffusion} {
		if s.Name == "" || s.Ranks <= 0 || s.WallTime <= 0 {
			return fmt.Errorf("%s site needs name, positive ranks and wall time, got %+v", name, s)
		}
	}
	return nil
}
