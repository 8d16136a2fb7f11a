package iteration

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
)

// document is the persisted shape of an iteration. Optional parts are pointers, so the
// regular/validation and mini/mono-batch variants differ by presence of keys only.
type document struct {
	Name             string              `yaml:"name" json:"name"`
	Events           map[string]eventDoc `yaml:"events" json:"events"`
	LastControlGroup *[]string           `yaml:"last_control_group,omitempty" json:"last_control_group,omitempty"`
	NewControlGroup  *[]string           `yaml:"new_control_group,omitempty" json:"new_control_group,omitempty"`
	Smoothing        *JobRecord          `yaml:"smoothing,omitempty" json:"smoothing,omitempty"`
}

type eventDoc struct {
	JobInfo      jobInfoDoc `yaml:"job_info" json:"job_info"`
	Misfit       *float64   `yaml:"misfit,omitempty" json:"misfit,omitempty"`
	UsageUpdated *bool      `yaml:"usage_updated,omitempty" json:"usage_updated,omitempty"`
}

type jobInfoDoc struct {
	Forward   JobRecord  `yaml:"forward" json:"forward"`
	Adjoint   *JobRecord `yaml:"adjoint,omitempty" json:"adjoint,omitempty"`
	Smoothing *JobRecord `yaml:"smoothing,omitempty" json:"smoothing,omitempty"`
}

func (it *Iteration) document() document {
	c := it.Clone() // detach from the live value
	res := document{Name: c.Name, Events: make(map[string]eventDoc, len(c.Events)), Smoothing: c.Smoothing}
	if c.LastControlGroup != nil {
		res.LastControlGroup = &c.LastControlGroup
	}
	if c.NewControlGroup != nil {
		res.NewControlGroup = &c.NewControlGroup
	}
	for name, ej := range c.Events {
		res.Events[name] = eventDoc{
			JobInfo:      jobInfoDoc{Forward: ej.Forward, Adjoint: ej.Adjoint, Smoothing: ej.Smoothing},
			Misfit:       ej.Misfit,
			UsageUpdated: ej.UsageUpdated,
		}
	}
	return res
}

// fromDocument builds iteration from the persisted shape and infers the modes it was written with.
// Modes stay unknown if the document doesn't tell, i.e. validation iterations or no events.
func fromDocument(doc document) *Iteration {
	res := &Iteration{Name: doc.Name, Events: make(map[string]*EventJobs, len(doc.Events)), Smoothing: doc.Smoothing}
	if doc.LastControlGroup != nil {
		res.LastControlGroup = normalizeGroup(*doc.LastControlGroup)
	}
	if doc.NewControlGroup != nil {
		res.NewControlGroup = normalizeGroup(*doc.NewControlGroup)
	}
	if doc.Smoothing != nil {
		res.Mode = enums.InversionModeMonoBatch
	}
	for name, ed := range doc.Events {
		res.Events[name] = &EventJobs{
			Forward:      ed.JobInfo.Forward,
			Adjoint:      ed.JobInfo.Adjoint,
			Smoothing:    ed.JobInfo.Smoothing,
			Misfit:       ed.Misfit,
			UsageUpdated: ed.UsageUpdated,
		}
		if ed.JobInfo.Smoothing != nil && res.Mode == enums.InversionModeUnknown {
			res.Mode = enums.InversionModeMiniBatch
		}
		if res.Meshes == enums.MeshModeUnknown {
			res.Meshes = enums.MeshModeMonoMesh
			if ed.JobInfo.Forward.Interpolated != nil {
				res.Meshes = enums.MeshModeMultiMesh
			}
		}
	}
	return res
}

// MarshalYAML implements yaml.Marshaler
func (it *Iteration) MarshalYAML() (any, error) { return it.document(), nil }

// UnmarshalYAML implements yaml.Unmarshaler. Modes are inferred from the document and stay
// unknown where it can't tell, use Decode to complete and validate them.
func (it *Iteration) UnmarshalYAML(value *yaml.Node) error {
	var doc document
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("decode iteration: %w", err)
	}
	*it = *fromDocument(doc)
	return nil
}

// MarshalJSON implements json.Marshaler with the same shape as the persisted yaml
func (it *Iteration) MarshalJSON() ([]byte, error) { return json.Marshal(it.document()) }

// Encode serializes iteration to yaml
func Encode(it *Iteration) ([]byte, error) {
	data, err := yaml.Marshal(it)
	if err != nil {
		return nil, Wrap("encode", it.Name, "", enums.JobKindUnknown, err)
	}
	return data, nil
}

// Decode parses yaml document into an iteration, completing modes the document can't tell
// with the configured ones and failing with ErrConfiguration if they disagree or the result
// is not a valid iteration.
func Decode(data []byte, mode enums.InversionMode, meshes enums.MeshMode) (*Iteration, error) {
	var res Iteration
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, Errorf("decode", "", "", enums.JobKindUnknown, ErrConfiguration, "%v", err)
	}
	if res.Mode != enums.InversionModeUnknown && res.Mode != mode {
		return nil, Errorf("decode", res.Name, "", enums.JobKindUnknown, ErrConfiguration,
			"record written in %s mode, configured %s", res.Mode, mode)
	}
	if res.Meshes != enums.MeshModeUnknown && res.Meshes != meshes {
		return nil, Errorf("decode", res.Name, "", enums.JobKindUnknown, ErrConfiguration,
			"record written for %s, configured %s", res.Meshes, meshes)
	}
	res.Mode, res.Meshes = mode, meshes
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}
