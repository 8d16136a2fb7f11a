// Package iteration defines the durable record of one optimization iteration: per-event
// job records, the control group bookkeeping and the typed mutations allowed on them.
//
// An Iteration comes in two variants. A regular iteration ("it0003_model") tracks forward,
// adjoint and smoothing jobs plus misfit, usage flag and control groups for every event.
// A validation iteration ("validation_it0003_model") tracks forward jobs only. Smoothing
// placement depends on the inversion mode: one record per event in mini-batch mode, a single
// iteration-level record shared by all events in mono-batch mode.
package iteration

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/umputun/invflow/app/enums"
)

// ValidationPrefix marks names of validation iterations
const ValidationPrefix = "validation_"

// Iteration is the state of all jobs of one iteration
type Iteration struct {
	Name   string
	Mode   enums.InversionMode
	Meshes enums.MeshMode
	Events map[string]*EventJobs

	// iteration-level smoothing job, mono-batch regular iterations only
	Smoothing *JobRecord

	// control groups, always nil for validation iterations
	LastControlGroup []string
	NewControlGroup  []string

	readOnly bool
}

// EventJobs keeps jobs and bookkeeping of a single event
type EventJobs struct {
	Forward   JobRecord
	Adjoint   *JobRecord // nil in validation iterations
	Smoothing *JobRecord // set in mini-batch regular iterations only

	Misfit       *float64 // nil in validation iterations
	UsageUpdated *bool    // nil in validation iterations
}

// IsValidationName reports if the iteration name refers to a validation iteration
func IsValidationName(name string) bool { return strings.HasPrefix(name, ValidationPrefix) }

// ValidationName returns name of the validation iteration for a regular iteration
func ValidationName(name string) string {
	if IsValidationName(name) {
		return name
	}
	return ValidationPrefix + name
}

// New makes a fresh iteration with unsubmitted jobs for all events, shaped for mode and meshes.
// lastGroup is ignored for validation iterations.
func New(name string, mode enums.InversionMode, meshes enums.MeshMode, events, lastGroup []string) (*Iteration, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Errorf("create", name, "", enums.JobKindUnknown, ErrConfiguration, "empty iteration name")
	}
	if mode == enums.InversionModeUnknown || meshes == enums.MeshModeUnknown {
		return nil, Errorf("create", name, "", enums.JobKindUnknown, ErrConfiguration,
			"inversion mode %s and mesh mode %s should be set", mode, meshes)
	}

	validation := IsValidationName(name)
	multiMesh := meshes == enums.MeshModeMultiMesh
	res := &Iteration{Name: name, Mode: mode, Meshes: meshes, Events: make(map[string]*EventJobs, len(events))}

	for _, event := range events {
		if event == "" {
			return nil, Errorf("create", name, "", enums.JobKindUnknown, ErrConfiguration, "empty event name")
		}
		ej := &EventJobs{Forward: newJob(multiMesh, validation)}
		if !validation {
			adj := newJob(multiMesh, false)
			ej.Adjoint = &adj
			ej.Misfit = new(float64)
			ej.UsageUpdated = boolPtr(false)
			if mode == enums.InversionModeMiniBatch {
				sm := newJob(false, false)
				ej.Smoothing = &sm
			}
		}
		res.Events[event] = ej
	}

	if !validation {
		res.LastControlGroup = normalizeGroup(lastGroup)
		res.NewControlGroup = []string{}
		if mode == enums.InversionModeMonoBatch {
			sm := newJob(false, false)
			res.Smoothing = &sm
		}
	}
	return res, nil
}

// Validation reports if this is a validation iteration
func (it *Iteration) Validation() bool { return IsValidationName(it.Name) }

// ReadOnly reports if the iteration was loaded as historical and can't be mutated
func (it *Iteration) ReadOnly() bool { return it.readOnly }

// MarkReadOnly freezes the iteration
func (it *Iteration) MarkReadOnly() { it.readOnly = true }

// EventNames returns sorted names of all events
func (it *Iteration) EventNames() []string {
	res := make([]string, 0, len(it.Events))
	for name := range it.Events {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Kinds returns job kinds tracked by this iteration
func (it *Iteration) Kinds() []enums.JobKind {
	if it.Validation() {
		return []enums.JobKind{enums.JobKindForward}
	}
	return enums.JobKindValues()
}

// Job returns the record for event and kind. Smoothing in mono-batch mode resolves to
// the single iteration-level record, the same pointer for every event, and can be addressed
// with an empty event as well.
func (it *Iteration) Job(event string, kind enums.JobKind) (*JobRecord, error) {
	if event == "" && kind == enums.JobKindSmoothing && it.Smoothing != nil {
		return it.Smoothing, nil
	}
	ej, ok := it.Events[event]
	if !ok {
		return nil, Errorf("job", it.Name, event, kind, ErrNotFound, "event not in iteration")
	}
	var res *JobRecord
	switch kind {
	case enums.JobKindForward:
		res = &ej.Forward
	case enums.JobKindAdjoint:
		res = ej.Adjoint
	case enums.JobKindSmoothing:
		res = ej.Smoothing
		if it.Mode == enums.InversionModeMonoBatch {
			res = it.Smoothing
		}
	}
	if res == nil {
		return nil, Errorf("job", it.Name, event, kind, ErrNotFound, "job kind not tracked in this iteration")
	}
	return res, nil
}

// Validate checks the iteration is shaped for its variant and mode and all job records are consistent
func (it *Iteration) Validate() error {
	fail := func(event string, kind enums.JobKind, format string, args ...any) error {
		return Errorf("validate", it.Name, event, kind, ErrConfiguration, format, args...)
	}
	if it.Name == "" {
		return fail("", enums.JobKindUnknown, "empty iteration name")
	}
	validation := it.Validation()
	multiMesh := it.Meshes == enums.MeshModeMultiMesh
	miniBatch := it.Mode == enums.InversionModeMiniBatch

	if validation && (it.Smoothing != nil || it.LastControlGroup != nil || it.NewControlGroup != nil) {
		return fail("", enums.JobKindUnknown, "validation iteration can't have smoothing or control groups")
	}
	if !validation {
		if it.LastControlGroup == nil || it.NewControlGroup == nil {
			return fail("", enums.JobKindUnknown, "missing control groups")
		}
		if (it.Smoothing != nil) == miniBatch {
			return fail("", enums.JobKindSmoothing, "iteration-level smoothing should exist in %s mode only", enums.InversionModeMonoBatch)
		}
	}
	if it.Smoothing != nil && !it.Smoothing.consistent() {
		return fail("", enums.JobKindSmoothing, "inconsistent job record %+v", *it.Smoothing)
	}

	for _, event := range it.EventNames() {
		ej := it.Events[event]
		if ej == nil {
			return fail(event, enums.JobKindUnknown, "empty event record")
		}
		if validation {
			if ej.Adjoint != nil || ej.Smoothing != nil || ej.Misfit != nil || ej.UsageUpdated != nil {
				return fail(event, enums.JobKindUnknown, "validation event can track forward job only")
			}
			if ej.Forward.WindowsSelected == nil {
				return fail(event, enums.JobKindForward, "missing windows_selected")
			}
		} else {
			if ej.Adjoint == nil || ej.Misfit == nil || ej.UsageUpdated == nil {
				return fail(event, enums.JobKindUnknown, "missing adjoint job, misfit or usage flag")
			}
			if (ej.Smoothing != nil) != miniBatch {
				return fail(event, enums.JobKindSmoothing, "per-event smoothing should exist in %s mode only", enums.InversionModeMiniBatch)
			}
		}
		for _, kind := range it.Kinds() {
			job, err := it.Job(event, kind)
			if err != nil {
				return fail(event, kind, "%v", err)
			}
			if !job.consistent() {
				return fail(event, kind, "inconsistent job record %+v", *job)
			}
			if kind != enums.JobKindSmoothing && (job.Interpolated != nil) != multiMesh {
				return fail(event, kind, "interpolated flag should be tracked in %s mode only", enums.MeshModeMultiMesh)
			}
		}
	}
	return nil
}

// Clone makes a deep copy, including the read-only mark
func (it *Iteration) Clone() *Iteration {
	res := &Iteration{
		Name:             it.Name,
		Mode:             it.Mode,
		Meshes:           it.Meshes,
		Events:           make(map[string]*EventJobs, len(it.Events)),
		LastControlGroup: slices.Clone(it.LastControlGroup),
		NewControlGroup:  slices.Clone(it.NewControlGroup),
		readOnly:         it.readOnly,
	}
	if it.Smoothing != nil {
		sm := it.Smoothing.clone()
		res.Smoothing = &sm
	}
	for name, ej := range it.Events {
		if ej == nil {
			continue
		}
		res.Events[name] = ej.clone()
	}
	return res
}

// String returns short summary of the iteration
func (it *Iteration) String() string {
	return fmt.Sprintf("%s (%s, %s, %d events)", it.Name, it.Mode, it.Meshes, len(it.Events))
}

func (ej *EventJobs) clone() *EventJobs {
	res := &EventJobs{Forward: ej.Forward.clone()}
	if ej.Adjoint != nil {
		v := ej.Adjoint.clone()
		res.Adjoint = &v
	}
	if ej.Smoothing != nil {
		v := ej.Smoothing.clone()
		res.Smoothing = &v
	}
	if ej.Misfit != nil {
		v := *ej.Misfit
		res.Misfit = &v
	}
	if ej.UsageUpdated != nil {
		v := *ej.UsageUpdated
		res.UsageUpdated = &v
	}
	return res
}

// normalizeGroup returns sorted, deduplicated, never nil copy of a control group
func normalizeGroup(group []string) []string {
	res := make([]string, 0, len(group))
	for _, g := range group {
		if g != "" {
			res = append(res, g)
		}
	}
	sort.Strings(res)
	return slices.Compact(res)
}
