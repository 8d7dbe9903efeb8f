package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates the source is not a well-formed expression.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrUnknownIdent indicates a name that is neither the variable nor a constant.
	ErrUnknownIdent = errors.New("expr: unknown identifier")

	// ErrUnknownFunc indicates a call to a function that is not defined.
	ErrUnknownFunc = errors.New("expr: unknown function")

	// ErrArity indicates a call with the wrong number of arguments.
	ErrArity = errors.New("expr: wrong number of arguments")

	// ErrUnsupported indicates valid Go syntax outside the expression language.
	ErrUnsupported = errors.New("expr: unsupported construct")
)

// ParseError wraps an error with position context.
type ParseError struct {
	Pos     int
	Expr    string
	Detail  string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at offset %d in %q", e.Wrapped, e.Pos, e.Expr)
	}
	return fmt.Sprintf("%v at offset %d in %q: %s", e.Wrapped, e.Pos, e.Expr, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
