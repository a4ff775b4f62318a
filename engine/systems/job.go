package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/quatmesh/engine/core"
)

// JobTask describes one unit of work for the job system.
type JobTask struct {
	Name string
	// Invoked on a worker goroutine. Required.
	OnStart func() error
	// Invoked after OnStart returns nil. Optional.
	OnComplete func()
	// Invoked with the error returned by OnStart. Optional.
	OnFailure func(err error)
	// Invoked once the job finished, whatever the outcome. Optional.
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}
	if job.OnStart == nil {
		return
	}
	if err := job.OnStart(); err != nil {
		core.LogDebug("job %s failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

// Workers returns the size of the pool.
func (js *JobSystem) Workers() int {
	return js.numWorkers
}

// Shutdown stops accepting work and waits for queued jobs to drain.
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

// Submit queues the job, blocking while the queue is full.
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}
