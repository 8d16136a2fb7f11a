package iteration

// JobState is the lifecycle position of a job record
type JobState int

// lifecycle states, ordered. Retrieved is terminal within an iteration.
const (
	JobUnsubmitted JobState = iota
	JobSubmitted
	JobRetrieved
)

func (s JobState) String() string {
	switch s {
	case JobSubmitted:
		return "submitted"
	case JobRetrieved:
		return "retrieved"
	default:
		return "unsubmitted"
	}
}

// JobRecord keeps the lifecycle of one compute job. Name is the backend handle and
// is set together with Submitted, never one without the other.
type JobRecord struct {
	Name      string `yaml:"name" json:"name"`
	Submitted bool   `yaml:"submitted" json:"submitted"`
	Retrieved bool   `yaml:"retrieved" json:"retrieved"`
	Reposts   int    `yaml:"reposts" json:"reposts"`

	// present for forward and adjoint jobs in multi-mesh mode only
	Interpolated *bool `yaml:"interpolated,omitempty" json:"interpolated,omitempty"`
	// present for forward jobs of validation iterations only
	WindowsSelected *bool `yaml:"windows_selected,omitempty" json:"windows_selected,omitempty"`
}

// State returns the lifecycle state of the record
func (j JobRecord) State() JobState {
	switch {
	case j.Retrieved:
		return JobRetrieved
	case j.Submitted:
		return JobSubmitted
	default:
		return JobUnsubmitted
	}
}

// IsInterpolated returns interpolation flag, false if not tracked
func (j JobRecord) IsInterpolated() bool { return j.Interpolated != nil && *j.Interpolated }

// IsWindowsSelected returns windows selection flag, false if not tracked
func (j JobRecord) IsWindowsSelected() bool { return j.WindowsSelected != nil && *j.WindowsSelected }

// consistent checks name and submitted flag agree, and retrieved implies submitted
func (j JobRecord) consistent() bool {
	if (j.Name != "") != j.Submitted {
		return false
	}
	return !j.Retrieved || j.Submitted
}

func (j JobRecord) clone() JobRecord {
	res := j
	if j.Interpolated != nil {
		v := *j.Interpolated
		res.Interpolated = &v
	}
	if j.WindowsSelected != nil {
		v := *j.WindowsSelected
		res.WindowsSelected = &v
	}
	return res
}

// reset returns the record to unsubmitted keeping reposts and the optional flags present, but cleared
func (j *JobRecord) reset() {
	j.Name, j.Submitted, j.Retrieved = "", false, false
	if j.Interpolated != nil {
		j.Interpolated = boolPtr(false)
	}
	if j.WindowsSelected != nil {
		j.WindowsSelected = boolPtr(false)
	}
}

func newJob(interpolated, windows bool) JobRecord {
	res := JobRecord{}
	if interpolated {
		res.Interpolated = boolPtr(false)
	}
	if windows {
		res.WindowsSelected = boolPtr(false)
	}
	return res
}

func boolPtr(v bool) *bool { return &v }
