package entrypoint

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrMalformedIdentifier = errors.New("malformed entry point identifier")
	ErrNotFound            = errors.New("entry point not found")
	ErrAmbiguousMatch      = errors.New("entry point is ambiguous")
	ErrLoadingFailure      = errors.New("entry point could not be loaded")
)

// Entry construction errors
var (
	ErrEmptyName  = errors.New("entry point name cannot be empty")
	ErrEmptyGroup = errors.New("entry point group cannot be empty")
	ErrNilEntry   = errors.New("entry point cannot be nil")
	ErrNoLoader   = errors.New("entry point has no load function")
)

// InvalidArgumentError reports a malformed call parameter, such as an unknown format tag.
type InvalidArgumentError struct {
	Argument string
	Value    any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %v", e.Argument, e.Value)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// MalformedIdentifierError reports an identifier that does not split into exactly
// a group and a name.
type MalformedIdentifierError struct {
	Identifier string
	Reason     string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed entry point identifier %q: %s", e.Identifier, e.Reason)
}

func (e *MalformedIdentifierError) Unwrap() error { return ErrMalformedIdentifier }

// NotFoundError reports that no entry point named Name is registered in Group.
// An empty Group means the name was searched across the whole catalog.
type NotFoundError struct {
	Group string
	Name  string
}

func (e *NotFoundError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("entry point '%s' not found in any catalog group", e.Name)
	}
	return fmt.Sprintf("entry point '%s' not found in group '%s'", e.Name, e.Group)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AmbiguousMatchError reports that more than one entry point satisfies a lookup.
// For lookups spanning several groups, Groups lists every group with a match.
type AmbiguousMatchError struct {
	Group  string
	Name   string
	Count  int
	Groups []string
}

func (e *AmbiguousMatchError) Error() string {
	if len(e.Groups) > 0 {
		return fmt.Sprintf("entry point '%s' found in multiple groups: %s", e.Name, strings.Join(e.Groups, ", "))
	}
	return fmt.Sprintf("multiple entry points '%s' found in group '%s' (%d matches)", e.Name, e.Group, e.Count)
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }

// LoadingFailureError wraps the failure of an entry's load function.
// Both ErrLoadingFailure and Cause are reachable through errors.Is / errors.As.
type LoadingFailureError struct {
	Name  string
	Cause error
}

func (e *LoadingFailureError) Error() string {
	return fmt.Sprintf("failed to load entry point '%s': %v", e.Name, e.Cause)
}

func (e *LoadingFailureError) Unwrap() []error {
	return []error{ErrLoadingFailure, e.Cause}
}
