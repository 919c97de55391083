package throttle

import (
	"context"
	"time"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
)

// item is one pending call. The throttle owns it from enqueue until it is
// popped; the caller only keeps the future that run and reject settle.
type item struct {
	id       string
	ctx      context.Context
	enqueued time.Time

	// run executes the wrapped function, settles the future and returns the
	// function's error.
	run func(ctx context.Context) error

	// reject settles the future without running the function.
	reject func(err error)
}

// queue holds pending items in arrival order. Items are appended at the tail
// and removed from the head (FIFO) or the tail (LIFO).
type queue struct {
	order Order
	list  *doublylinkedlist.List
}

func newQueue(order Order) *queue {
	return &queue{
		order: order,
		list:  doublylinkedlist.New(),
	}
}

func (q *queue) push(it *item) {
	q.list.Add(it)
}

// pop removes and returns the next item according to the queue order.
func (q *queue) pop() (*item, bool) {
	if q.list.Empty() {
		return nil, false
	}

	idx := 0
	if q.order == LIFO {
		idx = q.list.Size() - 1
	}

	v, ok := q.list.Get(idx)
	if !ok {
		return nil, false
	}
	q.list.Remove(idx)

	return v.(*item), true
}

// drain removes and returns every item in arrival order.
func (q *queue) drain() []*item {
	values := q.list.Values()
	q.list.Clear()

	items := make([]*item, 0, len(values))
	for _, v := range values {
		items = append(items, v.(*item))
	}
	return items
}

// Len returns the number of pending items.
func (q *queue) Len() int {
	return q.list.Size()
}
