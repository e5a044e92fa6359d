package mqtt

import (
	"sync"
	"testing"
)

func push(q *replayQueue, from, to int) {
	for i := from; i < to; i++ {
		q.add(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}
}

func TestReplayQueueEmptyTake(t *testing.T) {
	q := newReplayQueue(10)
	got, dropped := q.take()
	if got != nil || dropped != 0 {
		t.Errorf("empty take: got %d items, %d dropped", len(got), dropped)
	}
}

func TestReplayQueueOrder(t *testing.T) {
	q := newReplayQueue(10)
	push(q, 0, 5)

	got, _ := q.take()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i, msg := range got {
		if msg.payload[0] != byte(i) {
			t.Errorf("item %d: got payload %d", i, msg.payload[0])
		}
	}

	if again, _ := q.take(); again != nil {
		t.Errorf("second take: got %d items, want none", len(again))
	}
}

func TestReplayQueueDropsOldest(t *testing.T) {
	q := newReplayQueue(5)
	push(q, 0, 8)

	got, dropped := q.take()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	if dropped != 3 {
		t.Errorf("dropped: got %d, want 3", dropped)
	}
	for i, msg := range got {
		if want := byte(i + 3); msg.payload[0] != want {
			t.Errorf("item %d: got payload %d, want %d", i, msg.payload[0], want)
		}
	}
}

func TestReplayQueueReusedAfterTake(t *testing.T) {
	q := newReplayQueue(5)
	push(q, 0, 7)
	q.take()

	push(q, 10, 14)
	got, dropped := q.take()
	if len(got) != 4 || dropped != 0 {
		t.Fatalf("got %d items, %d dropped; want 4, 0", len(got), dropped)
	}
	for i, msg := range got {
		if want := byte(10 + i); msg.payload[0] != want {
			t.Errorf("item %d: got %d, want %d", i, msg.payload[0], want)
		}
	}
}

func TestReplayQueueLen(t *testing.T) {
	q := newReplayQueue(3)
	if q.len() != 0 {
		t.Errorf("len: got %d, want 0", q.len())
	}
	push(q, 0, 5)
	if q.len() != 3 {
		t.Errorf("len when full: got %d, want 3", q.len())
	}
	q.take()
	if q.len() != 0 {
		t.Errorf("len after take: got %d, want 0", q.len())
	}
}

func TestReplayQueueZeroCapacity(t *testing.T) {
	q := newReplayQueue(0)
	push(q, 0, 3)
	if got, _ := q.take(); got != nil {
		t.Errorf("zero capacity queue kept %d items", len(got))
	}
}

func TestReplayQueuePreservesFields(t *testing.T) {
	q := newReplayQueue(2)
	q.add(queuedMsg{topic: TopicSystem, payload: []byte(`{"test":true}`), qos: 1, retained: true})

	got, _ := q.take()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	msg := got[0]
	if msg.topic != TopicSystem || string(msg.payload) != `{"test":true}` || msg.qos != 1 || !msg.retained {
		t.Errorf("fields not preserved: %+v", msg)
	}
}

func TestReplayQueueConcurrentAdd(t *testing.T) {
	q := newReplayQueue(1000)
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			push(q, 0, 50)
		}()
	}
	wg.Wait()
	if q.len() != 500 {
		t.Errorf("len: got %d, want 500", q.len())
	}
}
