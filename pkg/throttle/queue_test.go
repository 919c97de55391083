package throttle

import (
	"testing"

	"github.com/vnykmshr/throttle/internal/testutil"
)

func pushIDs(q *queue, ids ...string) {
	for _, id := range ids {
		q.push(&item{id: id})
	}
}

func popIDs(t *testing.T, q *queue) []string {
	t.Helper()
	var ids []string
	for {
		it, ok := q.pop()
		if !ok {
			return ids
		}
		ids = append(ids, it.id)
	}
}

func TestQueueOrder(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  []string
	}{
		{"fifo", FIFO, []string{"a", "b", "c"}},
		{"lifo", LIFO, []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueue(tt.order)
			pushIDs(q, "a", "b", "c")
			testutil.AssertEqual(t, q.Len(), 3)

			got := popIDs(t, q)
			testutil.AssertEqual(t, len(got), len(tt.want))
			for i := range got {
				testutil.AssertEqual(t, got[i], tt.want[i])
			}
			testutil.AssertEqual(t, q.Len(), 0)
		})
	}
}

func TestQueuePopEmpty(t *testing.T) {
	q := newQueue(FIFO)

	it, ok := q.pop()
	testutil.AssertEqual(t, ok, false)
	testutil.AssertEqual(t, it == nil, true)
}

func TestQueueItemRemovedOnce(t *testing.T) {
	q := newQueue(FIFO)
	pushIDs(q, "a", "b")

	first, _ := q.pop()
	pushIDs(q, "c")
	rest := popIDs(t, q)

	testutil.AssertEqual(t, first.id, "a")
	testutil.AssertEqual(t, len(rest), 2)
	testutil.AssertEqual(t, rest[0], "b")
	testutil.AssertEqual(t, rest[1], "c")
}

func TestQueueDrain(t *testing.T) {
	q := newQueue(LIFO)
	pushIDs(q, "a", "b", "c")

	items := q.drain()
	testutil.AssertEqual(t, len(items), 3)
	testutil.AssertEqual(t, items[0].id, "a")
	testutil.AssertEqual(t, items[2].id, "c")
	testutil.AssertEqual(t, q.Len(), 0)
}
