// control_queue.go - Single-producer/single-consumer prediction queue

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "sync/atomic"

// SPSCQueue is a fixed-capacity lossy ring for exactly one producer goroutine
// and one consumer goroutine. Push never blocks: when the ring is full the
// oldest unread entry is overwritten. Use from more than one producer or more
// than one consumer is undefined.
//
// head is written only by the producer, tail only by the consumer. Slots hold
// pointers tagged with their write position, so a read racing an overwrite
// always observes a complete item and can tell that it was lapped.
type SPSCQueue[T any] struct {
	slots [QUEUE_CAPACITY]atomic.Pointer[queueEntry[T]]
	head  atomic.Uint64 // next write position
	tail  atomic.Uint64 // next read position
}

type queueEntry[T any] struct {
	seq uint64
	val T
}

func NewSPSCQueue[T any]() *SPSCQueue[T] {
	return &SPSCQueue[T]{}
}

// Push publishes v. The slot is written before the head store makes it visible.
func (q *SPSCQueue[T]) Push(v T) {
	h := q.head.Load()
	q.slots[h%QUEUE_CAPACITY].Store(&queueEntry[T]{seq: h, val: v})
	q.head.Store(h + 1)
}

// Pop returns the oldest unread item still held by the ring.
func (q *SPSCQueue[T]) Pop() (T, bool) {
	var zero T
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if head <= tail {
			return zero, false
		}
		if head-tail > QUEUE_CAPACITY {
			// overwritten entries are gone
			tail = head - QUEUE_CAPACITY
		}
		e := q.slots[tail%QUEUE_CAPACITY].Load()
		if e == nil {
			return zero, false
		}
		if e.seq != tail {
			// lapped while reading
			continue
		}
		q.tail.Store(tail + 1)
		return e.val, true
	}
}

// PopLatest returns the newest item and discards every older unread one.
func (q *SPSCQueue[T]) PopLatest() (T, bool) {
	var zero T
	head := q.head.Load()
	tail := q.tail.Load()
	if head <= tail {
		return zero, false
	}
	e := q.slots[(head-1)%QUEUE_CAPACITY].Load()
	if e == nil {
		return zero, false
	}
	q.tail.Store(e.seq + 1)
	return e.val, true
}

// Len reports the number of unread items, at most QUEUE_CAPACITY.
func (q *SPSCQueue[T]) Len() int {
	n := q.head.Load() - q.tail.Load()
	if int64(n) < 0 {
		return 0
	}
	if n > QUEUE_CAPACITY {
		n = QUEUE_CAPACITY
	}
	return int(n)
}

// Capacity returns the fixed ring size.
func (q *SPSCQueue[T]) Capacity() int { return QUEUE_CAPACITY }
