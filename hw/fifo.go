package hw

// A FIFO is a bounded queue whose operations take effect immediately. It is
// meant for state private to one component; use a Channel between
// components.
type FIFO[T any] struct {
	name     string
	capacity int
	items    []T
}

// NewFIFO creates a FIFO that holds at most capacity items.
func NewFIFO[T any](name string, capacity int) *FIFO[T] {
	if capacity <= 0 {
		panic("fifo capacity must be positive")
	}

	return &FIFO[T]{
		name:     name,
		capacity: capacity,
	}
}

// NotFull tells if one more item can be enqueued.
func (f *FIFO[T]) NotFull() bool {
	return len(f.items) < f.capacity
}

// NotEmpty tells if at least one item can be dequeued.
func (f *FIFO[T]) NotEmpty() bool {
	return len(f.items) > 0
}

// Len returns the number of buffered items.
func (f *FIFO[T]) Len() int {
	return len(f.items)
}

// Enq appends an item.
func (f *FIFO[T]) Enq(item T) {
	if !f.NotFull() {
		violate(FIFOOverflow, f.name, "enq", "capacity %d", f.capacity)
	}

	f.items = append(f.items, item)
}

// Peek returns the oldest item without removing it.
func (f *FIFO[T]) Peek() T {
	if !f.NotEmpty() {
		violate(FIFOUnderflow, f.name, "peek", "empty")
	}

	return f.items[0]
}

// Deq removes and returns the oldest item.
func (f *FIFO[T]) Deq() T {
	if !f.NotEmpty() {
		violate(FIFOUnderflow, f.name, "deq", "empty")
	}

	item := f.items[0]
	f.items = f.items[1:]

	return item
}
