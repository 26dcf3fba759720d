package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllJobsBeforeStop(t *testing.T) {
	p := NewPool(4)
	var n atomic.Int64
	for i := 0; i < 100; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int64(100), n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Stop()
	assert.False(t, p.Submit(func() {}))
	p.Stop()
}

func TestPool_SurvivesPanickingJob(t *testing.T) {
	p := NewPool(1)
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(func() { panic("boom") })
	p.Submit(func() { wg.Done() })
	wg.Wait()
	p.Stop()
}
