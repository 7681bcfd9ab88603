package keylock

import (
	"fmt"
	"sync"
	"testing"
)

func TestLock_SerializesSameKey(t *testing.T) {
	kl := New()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock("w1:p1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestLock_DistinctKeysIndependent(t *testing.T) {
	kl := New()
	unlock := kl.Lock("w1:p1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := kl.Lock("w2:p1")
		u()
		close(done)
	}()
	<-done // must not deadlock while w1:p1 is held
}

func TestLock_SameMutexReused(t *testing.T) {
	kl := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("w%d:p1", n%2)
			u := kl.Lock(key)
			u()
		}(i)
	}
	wg.Wait()
	if len(kl.locks) != 2 {
		t.Errorf("locks = %d entries, want 2", len(kl.locks))
	}
}
