package ai

import "container/heap"

// Item - елемент відкритого списку.
type Item[S any] struct {
	Value    S
	Key      string
	G        float64
	Priority float64 // f-score
	Seq      uint64  // порядок вставки: FIFO серед рівних f
	Index    int
}

// PriorityQueue - min-heap за Priority, рівні - за Seq.
type PriorityQueue[S any] struct {
	items []*Item[S]
	seq   uint64
}

func (pq *PriorityQueue[S]) Len() int { return len(pq.items) }

func (pq *PriorityQueue[S]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Seq < b.Seq
}

func (pq *PriorityQueue[S]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].Index = i
	pq.items[j].Index = j
}

func (pq *PriorityQueue[S]) Push(x any) {
	item := x.(*Item[S])
	item.Index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *PriorityQueue[S]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	pq.items = old[:n-1]
	return item
}

// Enqueue додає вузол з пріоритетом і присвоює порядковий номер.
func (pq *PriorityQueue[S]) Enqueue(value S, key string, g, priority float64) {
	pq.seq++
	heap.Push(pq, &Item[S]{Value: value, Key: key, G: g, Priority: priority, Seq: pq.seq})
}

// Dequeue забирає елемент з найменшим пріоритетом.
func (pq *PriorityQueue[S]) Dequeue() *Item[S] {
	return heap.Pop(pq).(*Item[S])
}
