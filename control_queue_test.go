package main

import (
	"sync"
	"testing"
)

func TestSPSCQueue_FIFO(t *testing.T) {
	q := NewSPSCQueue[int]()
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue returned an item")
	}
	for i := 1; i <= 3; i++ {
		q.Push(i)
	}
	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Len())
	}
	for want := 1; want <= 3; want++ {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Errorf("Pop = %d, %v, want %d", got, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("queue not empty after draining")
	}
}

func TestSPSCQueue_OverwriteDropsOldest(t *testing.T) {
	tests := []struct {
		name   string
		pushes int
	}{
		{"exactly full", QUEUE_CAPACITY},
		{"one over", QUEUE_CAPACITY + 1},
		{"three laps", 3*QUEUE_CAPACITY + 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSPSCQueue[int]()
			for i := 0; i < tt.pushes; i++ {
				q.Push(i)
			}
			if q.Len() != QUEUE_CAPACITY {
				t.Errorf("Len = %d, want %d", q.Len(), QUEUE_CAPACITY)
			}
			first := tt.pushes - QUEUE_CAPACITY
			for want := first; want < tt.pushes; want++ {
				got, ok := q.Pop()
				if !ok || got != want {
					t.Fatalf("Pop = %d, %v, want %d", got, ok, want)
				}
			}
			if _, ok := q.Pop(); ok {
				t.Error("extra item after draining")
			}
		})
	}
}

func TestSPSCQueue_PopLatest(t *testing.T) {
	tests := []struct {
		name   string
		pushes int
	}{
		{"single", 1},
		{"partial", 5},
		{"past capacity", QUEUE_CAPACITY*2 + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSPSCQueue[int]()
			for i := 1; i <= tt.pushes; i++ {
				q.Push(i)
			}
			got, ok := q.PopLatest()
			if !ok || got != tt.pushes {
				t.Errorf("PopLatest = %d, %v, want %d", got, ok, tt.pushes)
			}
			if _, ok := q.Pop(); ok {
				t.Error("PopLatest left older items behind")
			}
			if _, ok := q.PopLatest(); ok {
				t.Error("PopLatest on drained queue returned an item")
			}
		})
	}
}

func TestSPSCQueue_Capacity(t *testing.T) {
	q := NewSPSCQueue[EEGStatePrediction]()
	if q.Capacity() != QUEUE_CAPACITY {
		t.Errorf("Capacity = %d, want %d", q.Capacity(), QUEUE_CAPACITY)
	}
}

// One producer and one consumer; the race detector is the main oracle.
// Items observed by the consumer must be strictly increasing.
func TestSPSCQueue_ConcurrentProducerConsumer(t *testing.T) {
	const n = 20000
	q := NewSPSCQueue[int]()
	var wg sync.WaitGroup

	wg.Go(func() {
		for i := 1; i <= n; i++ {
			q.Push(i)
		}
	})

	last := 0
	received := 0
	wg.Go(func() {
		for last < n {
			v, ok := q.Pop()
			if !ok {
				continue
			}
			if v <= last {
				t.Errorf("out of order: %d after %d", v, last)
				return
			}
			last = v
			received++
		}
	})
	wg.Wait()

	if received == 0 {
		t.Error("consumer received nothing")
	}
}
