package reminderheap

import (
	"github.com/planhub-app/reminder-planner/internal/model"
)

// MirrorHeap orders mirror entries soonest-first. Used with container/heap.
type MirrorHeap []*model.MirrorEntry

func (h *MirrorHeap) Len() int { return len(*h) }

func (h *MirrorHeap) Less(i, j int) bool {
	return (*h)[i].ScheduledAt.Before((*h)[j].ScheduledAt)
}

func (h *MirrorHeap) Swap(i, j int) { (*h)[i], (*h)[j] = (*h)[j], (*h)[i] }

func (h *MirrorHeap) Push(x any) {
	*h = append(*h, x.(*model.MirrorEntry))
}

func (h *MirrorHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Peek returns the soonest entry without removing it.
func (h *MirrorHeap) Peek() *model.MirrorEntry {
	if h.Len() == 0 {
		return nil
	}
	return (*h)[0]
}
