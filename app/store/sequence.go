package store

import (
	"github.com/umputun/invflow/app/iteration"
)

// Sequence orders regular iterations by name, as persisted in the records directory.
// Names are expected to sort in creation order, e.g. "it0000_model", "it0001_model".
type Sequence struct {
	dir string
}

// NewSequence makes sequence for records in dir
func NewSequence(dir string) *Sequence { return &Sequence{dir: dir} }

// PreviousIteration returns the greatest regular iteration sorting before name, empty if name is the first one
func (s *Sequence) PreviousIteration(name string) (string, error) {
	names, err := s.regular()
	if err != nil {
		return "", err
	}
	res := ""
	for _, n := range names {
		if n >= name {
			break
		}
		res = n
	}
	return res, nil
}

// NewestIteration returns the greatest regular iteration, empty if none created yet
func (s *Sequence) NewestIteration() (string, error) {
	names, err := s.regular()
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[len(names)-1], nil
}

func (s *Sequence) regular() ([]string, error) {
	names, err := listNames(s.dir)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(names))
	for _, n := range names {
		if !iteration.IsValidationName(n) {
			res = append(res, n)
		}
	}
	return res, nil
}
