package vip

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityLocksSerializeSameKey(t *testing.T) {
	locks := newEntityLocks()

	const goroutines = 50
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("entity-1:employee_profile")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestEntityLocksIndependentKeys(t *testing.T) {
	locks := newEntityLocks()

	unlock1 := locks.Lock("a")
	// Другой ключ не блокируется, пока держится первый
	unlock2 := locks.Lock("b")
	unlock2()
	unlock1()
}

func TestEntityLocksCleanUpAfterRelease(t *testing.T) {
	locks := newEntityLocks()

	unlock := locks.Lock("key")
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries, "released keys must not accumulate")
}
