package poller

import (
	"sync"
	"time"
)

// DeDup registers running sweeps by iteration name to prevent overlapping ones
type DeDup struct {
	active map[string]time.Time
	lock   sync.Mutex
}

// NewDeDup creates DeDup
func NewDeDup() *DeDup {
	return &DeDup{active: make(map[string]time.Time)}
}

// Add key to the map, false if already in
func (d *DeDup) Add(key string) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, found := d.active[key]; found {
		return false
	}
	d.active[key] = time.Now()
	return true
}

// Remove key from the map. Safe to call multiple times
func (d *DeDup) Remove(key string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.active, key)
}

// Active returns copy of running keys with their start time
func (d *DeDup) Active() map[string]time.Time {
	d.lock.Lock()
	defer d.lock.Unlock()
	res := make(map[string]time.Time, len(d.active))
	for k, v := range d.active {
		res[k] = v
	}
	return res
}
