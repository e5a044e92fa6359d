package mqtt

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// queuedMsg is a serialized message waiting for the broker to come back.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue holds the most recent messages published while offline.
// When full, the oldest message is dropped.
type replayQueue struct {
	mu      sync.Mutex
	msgs    []queuedMsg
	next    int
	size    int
	dropped int
}

func newReplayQueue(capacity int) *replayQueue {
	return &replayQueue{msgs: make([]queuedMsg, capacity)}
}

func (q *replayQueue) add(msg queuedMsg) {
	q.mu.Lock()
	defer q.mu.Unlock()

	capacity := len(q.msgs)
	if capacity == 0 {
		return
	}
	if q.size == capacity {
		if q.dropped == 0 {
			log.Warn().Int("capacity", capacity).Msg("mqtt offline queue full, dropping oldest")
		}
		q.dropped++
	} else {
		q.size++
	}
	q.msgs[q.next] = msg
	q.next = (q.next + 1) % capacity
}

// take removes and returns every queued message, oldest first, and the
// number dropped since the last take.
func (q *replayQueue) take() ([]queuedMsg, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return nil, 0
	}
	capacity := len(q.msgs)
	out := make([]queuedMsg, q.size)
	first := (q.next - q.size + capacity) % capacity
	for i := range out {
		out[i] = q.msgs[(first+i)%capacity]
	}

	dropped := q.dropped
	q.next, q.size, q.dropped = 0, 0, 0
	return out, dropped
}

func (q *replayQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
