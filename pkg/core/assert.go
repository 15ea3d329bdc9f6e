package core

import (
	"github.com/pkg/errors"
)

// Assert panics with msg when cond is false. It is reserved for contract
// violations by the caller; runtime conditions are returned as errors.
func Assert(cond bool, msg string) {
	if !cond {
		panic(errors.New("assertion failed: " + msg))
	}
}

// Assertf is Assert with a formatted message.
func Assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.Errorf("assertion failed: "+format, args...))
	}
}
