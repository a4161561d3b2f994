package automaton

import (
	"errors"
	"fmt"
)

var (
	ErrStructure     = errors.New("incorrect automaton structure")
	ErrUnknownState  = errors.New("state is not defined")
	ErrUnknownInput  = errors.New("input is not defined")
	ErrNameCollision = errors.New("state name collision")
)

// StructureError is returned when a description or an operation does not fit
// the automaton it is applied to.
type StructureError struct {
	inner   error
	message string
}

func (e *StructureError) Error() string {
	return e.message
}

func (e *StructureError) Unwrap() error {
	return e.inner
}

func newStructureError(kind Kind, inner error, format string, args ...any) *StructureError {
	return &StructureError{
		inner:   inner,
		message: fmt.Sprintf("%s: %s: %v", kind, fmt.Sprintf(format, args...), inner),
	}
}
