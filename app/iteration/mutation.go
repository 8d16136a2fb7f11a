package iteration

import (
	"fmt"

	"github.com/umputun/invflow/app/enums"
)

// Field enumerates the mutable fields of an iteration
type Field int

// mutable fields
const (
	FieldJobName Field = iota + 1
	FieldSubmitted
	FieldRetrieved
	FieldReposts
	FieldInterpolated
	FieldWindowsSelected
	FieldJob // whole job record, used by reset
	FieldMisfit
	FieldUsageUpdated
	FieldNewControlGroup
)

var fieldNames = map[Field]string{
	FieldJobName:         "name",
	FieldSubmitted:       "submitted",
	FieldRetrieved:       "retrieved",
	FieldReposts:         "reposts",
	FieldInterpolated:    "interpolated",
	FieldWindowsSelected: "windows_selected",
	FieldJob:             "job",
	FieldMisfit:          "misfit",
	FieldUsageUpdated:    "usage_updated",
	FieldNewControlGroup: "new_control_group",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

// Path addresses a field inside the iteration tree. Event is empty for iteration-level
// fields and Kind is unknown for event-level fields.
type Path struct {
	Event string
	Kind  enums.JobKind
	Field Field
}

func (p Path) String() string {
	switch {
	case p.Event == "" && p.Kind != enums.JobKindUnknown:
		return fmt.Sprintf("%s.%s", p.Kind, p.Field)
	case p.Event == "":
		return p.Field.String()
	case p.Kind == enums.JobKindUnknown:
		return fmt.Sprintf("events.%s.%s", p.Event, p.Field)
	default:
		return fmt.Sprintf("events.%s.job_info.%s.%s", p.Event, p.Kind, p.Field)
	}
}

// Mutation is a single typed change of an iteration. Mutations are made by the Set* constructors
// only and applied by the store bridge, which persists the result in the same step.
type Mutation struct {
	Path  Path
	Value any // for logging only, the typed value is captured by apply
	apply func(it *Iteration) error
}

// Apply applies the mutation to it in memory. Use the store bridge to apply and persist.
func (m Mutation) Apply(it *Iteration) error {
	if m.apply == nil {
		return Errorf("set", it.Name, m.Path.Event, m.Path.Kind, ErrInvalidState, "empty mutation for %s", m.Path)
	}
	return m.apply(it)
}

func (m Mutation) String() string { return fmt.Sprintf("%s=%v", m.Path, m.Value) }

// SetJobName sets backend job name
func SetJobName(event string, kind enums.JobKind, name string) Mutation {
	return jobMutation(event, kind, FieldJobName, name, func(j *JobRecord) error {
		j.Name = name
		return nil
	})
}

// SetSubmitted sets submitted flag
func SetSubmitted(event string, kind enums.JobKind, v bool) Mutation {
	return jobMutation(event, kind, FieldSubmitted, v, func(j *JobRecord) error {
		j.Submitted = v
		return nil
	})
}

// SetRetrieved sets retrieved flag
func SetRetrieved(event string, kind enums.JobKind, v bool) Mutation {
	return jobMutation(event, kind, FieldRetrieved, v, func(j *JobRecord) error {
		j.Retrieved = v
		return nil
	})
}

// SetReposts sets reposts counter, negative values rejected
func SetReposts(event string, kind enums.JobKind, v int) Mutation {
	return jobMutation(event, kind, FieldReposts, v, func(j *JobRecord) error {
		if v < 0 {
			return fmt.Errorf("%w: negative reposts %d", ErrInvalidState, v)
		}
		j.Reposts = v
		return nil
	})
}

// SetInterpolated sets interpolation flag, the flag should be tracked for the job (multi-mesh mode)
func SetInterpolated(event string, kind enums.JobKind, v bool) Mutation {
	return jobMutation(event, kind, FieldInterpolated, v, func(j *JobRecord) error {
		if j.Interpolated == nil {
			return fmt.Errorf("%w: interpolation not tracked for this job", ErrInvalidState)
		}
		j.Interpolated = boolPtr(v)
		return nil
	})
}

// SetWindowsSelected sets windows selection flag, tracked for validation forward jobs only
func SetWindowsSelected(event string, v bool) Mutation {
	return jobMutation(event, enums.JobKindForward, FieldWindowsSelected, v, func(j *JobRecord) error {
		if j.WindowsSelected == nil {
			return fmt.Errorf("%w: windows selection not tracked for this job", ErrInvalidState)
		}
		j.WindowsSelected = boolPtr(v)
		return nil
	})
}

// ResetJob returns the job to unsubmitted, reposts counter is kept
func ResetJob(event string, kind enums.JobKind) Mutation {
	return jobMutation(event, kind, FieldJob, "reset", func(j *JobRecord) error {
		j.reset()
		return nil
	})
}

// SetMisfit sets event misfit, regular iterations only
func SetMisfit(event string, v float64) Mutation {
	return eventMutation(event, FieldMisfit, v, func(ej *EventJobs) error {
		if ej.Misfit == nil {
			return fmt.Errorf("%w: misfit not tracked in validation iteration", ErrInvalidState)
		}
		ej.Misfit = &v
		return nil
	})
}

// SetUsageUpdated sets event usage updated flag, regular iterations only
func SetUsageUpdated(event string, v bool) Mutation {
	return eventMutation(event, FieldUsageUpdated, v, func(ej *EventJobs) error {
		if ej.UsageUpdated == nil {
			return fmt.Errorf("%w: usage not tracked in validation iteration", ErrInvalidState)
		}
		ej.UsageUpdated = boolPtr(v)
		return nil
	})
}

// SetNewControlGroup sets the control group selected in this iteration. Members should be events of the iteration.
func SetNewControlGroup(members []string) Mutation {
	group := normalizeGroup(members)
	return Mutation{Path: Path{Field: FieldNewControlGroup}, Value: group, apply: func(it *Iteration) error {
		if it.Validation() {
			return Errorf("set", it.Name, "", enums.JobKindUnknown, ErrInvalidState, "validation iteration has no control group")
		}
		for _, m := range group {
			if _, ok := it.Events[m]; !ok {
				return Errorf("set", it.Name, m, enums.JobKindUnknown, ErrNotFound, "control group member not in iteration")
			}
		}
		it.NewControlGroup = group
		return nil
	}}
}

func jobMutation(event string, kind enums.JobKind, field Field, v any, fn func(j *JobRecord) error) Mutation {
	p := Path{Event: event, Kind: kind, Field: field}
	return Mutation{Path: p, Value: v, apply: func(it *Iteration) error {
		job, err := it.Job(event, kind)
		if err != nil {
			return err
		}
		return Wrap("set "+p.String(), it.Name, event, kind, fn(job))
	}}
}

func eventMutation(event string, field Field, v any, fn func(ej *EventJobs) error) Mutation {
	p := Path{Event: event, Field: field}
	return Mutation{Path: p, Value: v, apply: func(it *Iteration) error {
		ej, ok := it.Events[event]
		if !ok {
			return Errorf("set", it.Name, event, enums.JobKindUnknown, ErrNotFound, "event not in iteration")
		}
		return Wrap("set "+p.String(), it.Name, event, enums.JobKindUnknown, fn(ej))
	}}
}
