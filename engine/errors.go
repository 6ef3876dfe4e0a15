package engine

import "errors"

var (
	ErrUnknownMove    = errors.New("unknown move")
	ErrUnknownSpecies = errors.New("unknown species")
	ErrIllegalAction  = errors.New("illegal action")
	// ErrNoLegalAction means a side has to act but nothing it could do is allowed.
	// This is different from every option being bad.
	ErrNoLegalAction = errors.New("no legal action")
)
