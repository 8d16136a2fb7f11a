package store

import (
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
)

//go:generate moq -out mocks/saver.go -pkg mocks -skip-ensure -fmt goimports . Saver

// Saver persists a whole iteration record
type Saver interface {
	Save(it *iteration.Iteration) error
}

// Bridge is the only way to change an iteration. Apply runs mutations on a copy, saves the copy
// and only then swaps it into the caller's value, so a failed mutation or a failed save leaves
// both memory and disk unchanged.
type Bridge struct {
	Saver Saver
}

// NewBridge makes bridge persisting with saver
func NewBridge(saver Saver) *Bridge { return &Bridge{Saver: saver} }

// Apply applies all mutations as one step. The result should be a valid iteration, so related
// fields (job name and submitted flag) have to be changed in the same call.
func (b *Bridge) Apply(it *iteration.Iteration, muts ...iteration.Mutation) error {
	if it.ReadOnly() {
		return iteration.Errorf("set", it.Name, "", enums.JobKindUnknown, iteration.ErrInvalidState,
			"historical record is read-only")
	}
	if len(muts) == 0 {
		return nil
	}

	upd := it.Clone()
	for _, m := range muts {
		if err := m.Apply(upd); err != nil {
			return err
		}
	}
	if err := upd.Validate(); err != nil {
		return iteration.Wrap("set", it.Name, muts[0].Path.Event, muts[0].Path.Kind, err)
	}
	if err := b.Saver.Save(upd); err != nil {
		return err
	}
	log.Printf("[DEBUG] iteration %s updated, %v", it.Name, muts)
	*it = *upd
	return nil
}
