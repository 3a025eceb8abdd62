package recordstore

import (
	"errors"
	"fmt"
)

// Recoverable failures. Operations returning one of these leave the
// transaction exactly as if the call had never been made.
var (
	ErrCapacityExceeded = errors.New("record exceeds cappedMaxSize")
	ErrOutOfOrder       = errors.New("out-of-order oplog insert")
	ErrEvictionVetoed   = errors.New("capped eviction vetoed")
	ErrMalformedPayload = errors.New("malformed oplog payload")
)

// invariant breaches are not recoverable: continuing would propagate
// silent corruption, so they abort instead of returning an error.
func invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
