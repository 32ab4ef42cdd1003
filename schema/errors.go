package schema

import (
	"errors"
	"fmt"
)

// Clause list errors.
var (
	ErrEmptyDefinition = errors.New("empty table definition")
	ErrMalformedList   = errors.New("malformed clause list")
)

// Clause shape errors.
var (
	ErrMissingEquals      = errors.New("missing '='")
	ErrMissingValue       = errors.New("missing value")
	ErrMissingKey         = errors.New("missing key")
	ErrExtraTokens        = errors.New("unexpected trailing tokens")
	ErrMissingKeyword     = errors.New("missing keyword")
	ErrInvalidType        = errors.New("invalid type")
	ErrMissingName        = errors.New("missing name")
	ErrMissingType        = errors.New("missing type")
	ErrMissingDimension   = errors.New("missing dimension")
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrInvalidMetric      = errors.New("invalid distance metric")
	ErrUnrecognizedClause = errors.New("unrecognized clause")
)

// Schema validation errors.
var (
	ErrDuplicateColumnName = errors.New("duplicate column name")
	ErrReservedColumnName  = errors.New("reserved column name")
	ErrNoVectorColumn      = errors.New("no vector column")
	ErrMultiplePrimaryKey  = errors.New("multiple primary keys")
	ErrUnknownOption       = errors.New("unknown option")
	ErrInvalidOptionValue  = errors.New("invalid option value")
	ErrDuplicateOption     = errors.New("duplicate option")
)

// ClauseError reports a definition failure. Clause is the offending clause
// text and is empty for failures that concern the whole definition.
type ClauseError struct {
	Clause string
	Err    error
	Detail string
}

func (e *ClauseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Clause == "" {
		return "vec0: " + msg
	}
	return fmt.Sprintf("vec0: %s in clause %q", msg, e.Clause)
}

func (e *ClauseError) Unwrap() error { return e.Err }

func clauseErr(clause string, err error, format string, args ...interface{}) *ClauseError {
	ret := &ClauseError{Clause: clause, Err: err}
	if format != "" {
		ret.Detail = fmt.Sprintf(format, args...)
	}
	return ret
}
