package scheduler

import "container/heap"

// reminderQueue is a min-heap of reminders ordered by FireAt.
type reminderQueue []*Reminder

var _ heap.Interface = (*reminderQueue)(nil)

func (q reminderQueue) Len() int { return len(q) }

func (q reminderQueue) Less(i, j int) bool {
	if q[i].FireAt.Equal(q[j].FireAt) {
		return q[i].seq < q[j].seq
	}
	return q[i].FireAt.Before(q[j].FireAt)
}

func (q reminderQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *reminderQueue) Push(x any) {
	*q = append(*q, x.(*Reminder))
}

func (q *reminderQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return r
}

// peek returns the earliest reminder without removing it.
func (q reminderQueue) peek() *Reminder {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
