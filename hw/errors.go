package hw

import "fmt"

// ErrorKind tells which hardware protocol rule a component broke.
type ErrorKind int

// The protocol rules that the kernel enforces.
const (
	QueueOverflow ErrorKind = iota
	QueueUnderflow
	WidthMismatch
	FIFOOverflow
	FIFOUnderflow
	AddressOutOfRange
	PortOutOfRange
	PortConflict
	ResponseUnderflow
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case QueueOverflow:
		return "QueueOverflow"
	case QueueUnderflow:
		return "QueueUnderflow"
	case WidthMismatch:
		return "WidthMismatch"
	case FIFOOverflow:
		return "FIFOOverflow"
	case FIFOUnderflow:
		return "FIFOUnderflow"
	case AddressOutOfRange:
		return "AddressOutOfRange"
	case PortOutOfRange:
		return "PortOutOfRange"
	case PortConflict:
		return "PortConflict"
	case ResponseUnderflow:
		return "ResponseUnderflow"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// A ProtocolError is raised when a component uses a channel, a FIFO, or a
// memory port without checking its handshake first. It is a wiring defect,
// never an input error, so the kernel raises it as a panic and the
// Simulator turns it into the error returned by Run.
type ProtocolError struct {
	Kind      ErrorKind
	Component string
	Op        string
	Detail    string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%s: %s on %s", e.Kind, e.Op, e.Component)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func violate(kind ErrorKind, component, op, format string, args ...any) {
	panic(&ProtocolError{
		Kind:      kind,
		Component: component,
		Op:        op,
		Detail:    fmt.Sprintf(format, args...),
	})
}
