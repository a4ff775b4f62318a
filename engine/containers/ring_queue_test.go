package containers

import (
	"errors"
	"reflect"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty queue: got %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue: got %v", err)
	}
	if v, _ := rq.Peek(); v != 1 {
		t.Fatalf("Peek = %d, expected 1", v)
	}
	if v, _ := rq.Dequeue(); v != 1 {
		t.Fatalf("Dequeue = %d, expected 1", v)
	}
	// The write index wraps around here.
	if err := rq.Enqueue(4); err != nil {
		t.Fatalf("Enqueue after Dequeue: %v", err)
	}
	if got := rq.Values(); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Fatalf("Values = %v", got)
	}
	if rq.Len() != 3 || !rq.IsFull() {
		t.Fatalf("Len = %d, IsFull = %v", rq.Len(), rq.IsFull())
	}
}

func TestRingQueueMinimumSize(t *testing.T) {
	rq := NewRingQueue[string](0)
	if err := rq.Enqueue("a"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if !rq.IsFull() {
		t.Fatalf("a queue created with size 0 should hold exactly one element")
	}
}
