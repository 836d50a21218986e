package dispatch

import "sync"

const numPriorities = MaxPriority - MinPriority + 1

// Queue is an in-memory priority queue of envelopes: one FIFO bucket per
// priority level, drained strictly in priority order. Safe for concurrent
// producers with a single consumer; contents are lost on process restart.
type Queue struct {
	mu      sync.Mutex
	buckets [numPriorities][]*Envelope
	size    int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends env to its priority bucket. Never blocks and never fails;
// bounded only by available memory.
func (q *Queue) Enqueue(env *Envelope) {
	p := ClampPriority(env.Priority)
	q.mu.Lock()
	q.buckets[p] = append(q.buckets[p], env)
	q.size++
	q.mu.Unlock()
}

// TryDequeue removes and returns the oldest envelope at the most urgent
// non-empty priority level. Non-blocking: reports false when empty.
func (q *Queue) TryDequeue() (*Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for p := 0; p < numPriorities; p++ {
		bucket := q.buckets[p]
		if len(bucket) == 0 {
			continue
		}
		env := bucket[0]
		bucket[0] = nil
		q.buckets[p] = bucket[1:]
		q.size--
		return env, true
	}
	return nil, false
}

// Len reports the number of queued envelopes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
