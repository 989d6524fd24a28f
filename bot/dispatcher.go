package bot

import "sync"

// dispatcher runs jobs in arrival order per user and concurrently across
// users. A user's drain goroutine exits once that user's queue is empty.
type dispatcher struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newDispatcher() *dispatcher {
	return &dispatcher{pending: make(map[int64][]func())}
}

func (d *dispatcher) submit(userID int64, job func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	queue, running := d.pending[userID]
	d.pending[userID] = append(queue, job)
	if !running {
		d.wg.Add(1)
		go d.drain(userID)
	}
}

func (d *dispatcher) drain(userID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.pending[userID]
		if len(queue) == 0 {
			delete(d.pending, userID)
			d.mu.Unlock()
			return
		}
		job := queue[0]
		d.pending[userID] = queue[1:]
		d.mu.Unlock()

		job()
	}
}

// wait blocks until every submitted job has run
func (d *dispatcher) wait() {
	d.wg.Wait()
}
