// Package enums provides closed enumerations shared by the orchestrator packages.
//
// Each type is a small integer with a fixed name table. Values round-trip through
// text (MarshalText/UnmarshalText), so they can be used directly in yaml and json
// documents, and the zero value of every type is an invalid "unknown" value which
// makes a forgotten assignment visible instead of silently meaning "forward" or "mini-batch".
package enums

import (
	"fmt"
	"strings"
)

// JobKind is the type of compute job an event needs within an iteration
type JobKind int

// job kinds
const (
	JobKindUnknown JobKind = iota
	JobKindForward
	JobKindAdjoint
	JobKindSmoothing
)

var jobKindNames = map[JobKind]string{
	JobKindForward:   "forward",
	JobKindAdjoint:   "adjoint",
	JobKindSmoothing: "smoothing",
}

// JobKindValues returns all valid job kinds in lifecycle order
func JobKindValues() []JobKind {
	return []JobKind{JobKindForward, JobKindAdjoint, JobKindSmoothing}
}

// String returns the job kind name, "unknown" for invalid values
func (k JobKind) String() string { return nameOf(jobKindNames, k) }

// ParseJobKind converts a name to JobKind
func ParseJobKind(s string) (JobKind, error) { return parse(jobKindNames, s, "job kind") }

// MarshalText implements encoding.TextMarshaler
func (k JobKind) MarshalText() ([]byte, error) { return marshal(jobKindNames, k, "job kind") }

// UnmarshalText implements encoding.TextUnmarshaler
func (k *JobKind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseJobKind(string(text))
	return err
}

// InversionMode defines where smoothing jobs live: per event (mini-batch) or once per iteration (mono-batch)
type InversionMode int

// inversion modes
const (
	InversionModeUnknown InversionMode = iota
	InversionModeMiniBatch
	InversionModeMonoBatch
)

var inversionModeNames = map[InversionMode]string{
	InversionModeMiniBatch: "mini-batch",
	InversionModeMonoBatch: "mono-batch",
}

// InversionModeValues returns all valid inversion modes
func InversionModeValues() []InversionMode {
	return []InversionMode{InversionModeMiniBatch, InversionModeMonoBatch}
}

// String returns the inversion mode name
func (m InversionMode) String() string { return nameOf(inversionModeNames, m) }

// ParseInversionMode converts a name to InversionMode
func ParseInversionMode(s string) (InversionMode, error) {
	return parse(inversionModeNames, s, "inversion mode")
}

// MarshalText implements encoding.TextMarshaler
func (m InversionMode) MarshalText() ([]byte, error) {
	return marshal(inversionModeNames, m, "inversion mode")
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *InversionMode) UnmarshalText(text []byte) (err error) {
	*m, err = ParseInversionMode(string(text))
	return err
}

// MeshMode tells if simulations run on the inversion mesh (mono-mesh) or on
// per-event wavefield adapted meshes (multi-mesh) requiring interpolation
type MeshMode int

// mesh modes
const (
	MeshModeUnknown MeshMode = iota
	MeshModeMonoMesh
	MeshModeMultiMesh
)

var meshModeNames = map[MeshMode]string{
	MeshModeMonoMesh:  "mono-mesh",
	MeshModeMultiMesh: "multi-mesh",
}

// MeshModeValues returns all valid mesh modes
func MeshModeValues() []MeshMode { return []MeshMode{MeshModeMonoMesh, MeshModeMultiMesh} }

// String returns the mesh mode name
func (m MeshMode) String() string { return nameOf(meshModeNames, m) }

// ParseMeshMode converts a name to MeshMode
func ParseMeshMode(s string) (MeshMode, error) { return parse(meshModeNames, s, "mesh mode") }

// MarshalText implements encoding.TextMarshaler
func (m MeshMode) MarshalText() ([]byte, error) { return marshal(meshModeNames, m, "mesh mode") }

// UnmarshalText implements encoding.TextUnmarshaler
func (m *MeshMode) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMeshMode(string(text))
	return err
}

// Status is the run state of a job as reported by the compute backend.
// Unlike the other enums the zero value is a valid state, StatusUnknown.
type Status int

// job statuses
const (
	StatusUnknown Status = iota
	StatusPending
	StatusRunning
	StatusComplete
	StatusFailed
)

var statusNames = map[Status]string{
	StatusUnknown:  "unknown",
	StatusPending:  "pending",
	StatusRunning:  "running",
	StatusComplete: "complete",
	StatusFailed:   "failed",
}

// StatusValues returns all statuses
func StatusValues() []Status {
	return []Status{StatusUnknown, StatusPending, StatusRunning, StatusComplete, StatusFailed}
}

// String returns the status name
func (s Status) String() string { return nameOf(statusNames, s) }

// ParseStatus converts a name to Status
func ParseStatus(s string) (Status, error) { return parse(statusNames, s, "status") }

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) { return marshal(statusNames, s, "status") }

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStatus(string(text))
	return err
}

// Terminal reports if the backend will not change this status anymore
func (s Status) Terminal() bool { return s == StatusComplete || s == StatusFailed }

func nameOf[T comparable](names map[T]string, v T) string {
	if n, ok := names[v]; ok {
		return n
	}
	return "unknown"
}

func parse[T comparable](names map[T]string, s, what string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, n := range names {
		if n == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", what, s)
}

func marshal[T comparable](names map[T]string, v T, what string) ([]byte, error) {
	n, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("can't marshal invalid %s %v", what, v)
	}
	return []byte(n), nil
}
