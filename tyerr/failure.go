package tyerr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Failure is an irrecoverable, unexpected scenario that a correct driver
// should never hit, like registering the callable of a call expression twice.
//
// Failures abort the current operation via panic. Use RecoverFailure at
// the boundary with the host to turn them back into an error
type Failure struct {
	Message string
	stack   []byte
}

func (f Failure) Error() string {
	return "internal failure: " + f.Message
}

// Frame returns the frame that raised the failure, if a stack was recorded
func (f Failure) Frame() string {
	lines := strings.Split(string(f.stack), "\n")
	if len(lines) <= 8 {
		return ""
	}
	return strings.TrimSpace(lines[8])
}

// Fail aborts the current operation with a Failure
func Fail(format string, args ...any) {
	panic(Failure{
		Message: fmt.Sprintf(format, args...),
		stack:   debug.Stack(),
	})
}

// RecoverFailure must be deferred. If the surrounding function is panicking
// because of a Failure, it stops the panic and stores the Failure in err.
// Any other panic keeps propagating
func RecoverFailure(err *error) {
	r := recover()
	if r == nil {
		return
	}
	failure, ok := r.(Failure)
	if !ok {
		panic(r)
	}
	*err = failure
}
