package safe_close

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestSafeClose_WaitsForAttached(t *testing.T) {
	sc := NewSafeClose()
	var finished atomic.Int32

	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			finished.Add(1)
		})
	}

	want := errors.New("listener failed")
	sc.SendCloseSignal(want)
	sc.SendCloseSignal(errors.New("ignored"))

	if err := sc.WaitClosed(); !errors.Is(err, want) {
		t.Fatalf("WaitClosed() = %v, want %v", err, want)
	}
	if finished.Load() != 3 {
		t.Fatalf("finished = %d, want 3", finished.Load())
	}
	if !sc.IsClosed() {
		t.Fatal("IsClosed() = false after signal")
	}
}

func TestSafeClose_DoneTwiceIsSafe(t *testing.T) {
	sc := NewSafeClose()
	sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		done()
		done()
	})
	sc.SendCloseSignal(nil)
	if err := sc.WaitClosed(); err != nil {
		t.Fatalf("WaitClosed() = %v", err)
	}
}
