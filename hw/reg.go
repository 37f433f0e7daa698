package hw

// A Reg is a clocked register. Writes land in a pending slot and become
// visible to Read only after the cycle boundary, so the value is stable for
// the whole cycle no matter how many times it is written.
type Reg[T any] struct {
	name    string
	current T
	pending T
}

// NewReg creates a register that is committed by the wiring.
func NewReg[T any](w *Wiring, name string, init T) *Reg[T] {
	r := &Reg[T]{
		name:    name,
		current: init,
		pending: init,
	}

	w.register(name, r)

	return r
}

// Name returns the name of the register.
func (r *Reg[T]) Name() string {
	return r.name
}

// Read returns the value committed at the last cycle boundary.
func (r *Reg[T]) Read() T {
	return r.current
}

// Write sets the value that the register takes at the next cycle boundary.
func (r *Reg[T]) Write(v T) {
	r.pending = v
}

// Commit moves the pending value into the register.
func (r *Reg[T]) Commit() {
	r.current = r.pending
}
