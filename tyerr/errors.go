package tyerr

import (
	"fmt"
	"go/token"
	"runtime/debug"
	"strings"

	"github.com/cottand/tyck/hir"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

type ErrCode int

const (
	None ErrCode = iota
	NoBodyCode
	UndefinedVariableCode
	TypeMismatchCode
	NotInLoopCode
	ImmutableAssignmentCode
	NotCallableCode
	ArgCountMismatchCode
	StarKindExpectedCode
)

// Error is a language-level problem found in the program being checked.
// It never means the checker itself is broken (see Failure for that)
type Error interface {
	Error() string
	Code() ErrCode
	hir.Positioner

	withStack([]byte) Error
	getStack() []byte
}

func FormatWithCode(e Error) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		lines := strings.Split(string(e.getStack()), "\n")
		frame := ""
		if len(lines) > 6 {
			frame = strings.TrimSpace(lines[6])
		}
		return fmt.Sprintf("%s:(E%03d) %s", frame, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithCodeAndPosition prefixes FormatWithCode with where e happened,
// when files knows its position
func FormatWithCodeAndPosition(e Error, files *token.FileSet) string {
	if !e.Pos().IsValid() || files == nil {
		return FormatWithCode(e)
	}
	return fmt.Sprintf("%s: %s", files.Position(e.Pos()), FormatWithCode(e))
}

func New[E Error](err E) Error {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	hir.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) Error {
	e.stack = stack
	return e
}
func (e Unclassified) Unwrap() error { return e.From }

// NoBody is returned when constructing a checking environment for a function
// that has no body, like a trait method declaration
type NoBody struct {
	hir.Positioner
	Func  string
	stack []byte
}

func (e NoBody) Error() string {
	return fmt.Sprintf("function '%s' has no body to check", e.Func)
}
func (e NoBody) Code() ErrCode    { return NoBodyCode }
func (e NoBody) getStack() []byte { return e.stack }
func (e NoBody) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type UndefinedVariable struct {
	hir.Positioner
	Name  string
	stack []byte
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined: %s", e.Name)
}
func (e UndefinedVariable) Code() ErrCode    { return UndefinedVariableCode }
func (e UndefinedVariable) getStack() []byte { return e.stack }
func (e UndefinedVariable) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

// TypeMismatch holds already-rendered types so that this package stays
// independent of the type representation
type TypeMismatch struct {
	hir.Positioner
	Expected string
	Found    string
	stack    []byte
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected type '%s', but found a different type '%s'", e.Expected, e.Found)
}
func (e TypeMismatch) Code() ErrCode    { return TypeMismatchCode }
func (e TypeMismatch) getStack() []byte { return e.stack }
func (e TypeMismatch) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NotInLoop struct {
	hir.Positioner
	// Keyword is either break or continue
	Keyword string
	stack   []byte
}

func (e NotInLoop) Error() string {
	return fmt.Sprintf("'%s' used outside of a loop", e.Keyword)
}
func (e NotInLoop) Code() ErrCode    { return NotInLoopCode }
func (e NotInLoop) getStack() []byte { return e.stack }
func (e NotInLoop) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type ImmutableAssignment struct {
	hir.Positioner
	Name string
	// DefinedAt points to the definition of the binding being assigned to, when known
	DefinedAt hir.Positioner
	stack     []byte
}

func (e ImmutableAssignment) Error() string {
	if e.Name == "" {
		return "cannot assign to an immutable expression"
	}
	return fmt.Sprintf("cannot assign twice to immutable variable '%s'", e.Name)
}
func (e ImmutableAssignment) Code() ErrCode    { return ImmutableAssignmentCode }
func (e ImmutableAssignment) getStack() []byte { return e.stack }
func (e ImmutableAssignment) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NotCallable struct {
	hir.Positioner
	Type  string
	stack []byte
}

func (e NotCallable) Error() string {
	return fmt.Sprintf("expression of type '%s' is not callable", e.Type)
}
func (e NotCallable) Code() ErrCode    { return NotCallableCode }
func (e NotCallable) getStack() []byte { return e.stack }
func (e NotCallable) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type ArgCountMismatch struct {
	hir.Positioner
	Func     string
	Expected int
	Given    int
	stack    []byte
}

func (e ArgCountMismatch) Error() string {
	return fmt.Sprintf("'%s' expects %d arguments, but %d were given", e.Func, e.Expected, e.Given)
}
func (e ArgCountMismatch) Code() ErrCode    { return ArgCountMismatchCode }
func (e ArgCountMismatch) getStack() []byte { return e.stack }
func (e ArgCountMismatch) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type StarKindExpected struct {
	hir.Positioner
	Type  string
	stack []byte
}

func (e StarKindExpected) Error() string {
	return fmt.Sprintf("expected a fully applied type, but '%s' still takes arguments", e.Type)
}
func (e StarKindExpected) Code() ErrCode    { return StarKindExpectedCode }
func (e StarKindExpected) getStack() []byte { return e.stack }
func (e StarKindExpected) withStack(stack []byte) Error {
	e.stack = stack
	return e
}
