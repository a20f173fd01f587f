package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerCounts(t *testing.T) {
	tr := New(nil, 50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Increment()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, tr.Processed())
	assert.Contains(t, tr.Status(), "10/50 movies")
}

func TestSilentTrackerWaitIsNoop(t *testing.T) {
	tr := New(nil, 1)
	tr.Wait()
	tr.Pause()
	tr.Increment()
	tr.Increment()

	assert.Contains(t, tr.Status(), "2/1 movies")
}

func TestZeroTotal(t *testing.T) {
	assert.Contains(t, New(nil, 0).Status(), "0/0 movies")
}
