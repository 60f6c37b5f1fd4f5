package cognition

import (
	"sync"
	"testing"
)

func TestPatientLocks_ReleasedWhenIdle(t *testing.T) {
	pl := newPatientLocks()

	unlock := pl.lock("p1")
	if pl.active() != 1 {
		t.Fatalf("active() = %d while held, want 1", pl.active())
	}
	unlock()
	if pl.active() != 0 {
		t.Errorf("active() = %d after unlock, want 0", pl.active())
	}
}

func TestPatientLocks_SerializesSamePatient(t *testing.T) {
	pl := newPatientLocks()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := pl.lock("p1")
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("%d goroutines held the same patient lock at once", maxSeen)
	}
	if pl.active() != 0 {
		t.Errorf("active() = %d after all unlocks, want 0", pl.active())
	}
}

func TestPatientLocks_DifferentPatientsIndependent(t *testing.T) {
	pl := newPatientLocks()

	unlockA := pl.lock("p1")
	done := make(chan struct{})
	go func() {
		unlockB := pl.lock("p2")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
