package cognition

import "sync"

// patientLocks hands out one mutex per patient so that ingestion for a
// patient is serialized while different patients proceed in parallel.
// Entries are reference counted and dropped once no caller holds or waits
// on them, so the table only holds patients with ingests in flight.
type patientLocks struct {
	mu    sync.Mutex
	locks map[string]*patientLock
}

type patientLock struct {
	mu   sync.Mutex
	refs int
}

func newPatientLocks() *patientLocks {
	return &patientLocks{locks: make(map[string]*patientLock)}
}

// lock acquires the patient's mutex and returns its unlock func.
func (pl *patientLocks) lock(patientID string) func() {
	pl.mu.Lock()
	l, ok := pl.locks[patientID]
	if !ok {
		l = &patientLock{}
		pl.locks[patientID] = l
	}
	l.refs++
	pl.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		pl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(pl.locks, patientID)
		}
		pl.mu.Unlock()
	}
}

// active returns the number of patients with an ingest in flight.
func (pl *patientLocks) active() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.locks)
}
