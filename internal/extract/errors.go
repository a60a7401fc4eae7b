package extract

import (
	"errors"
	"fmt"
)

// Lookup outcomes. Both are returned wrapped in a *LookupError.
var (
	// ErrNotFound means no definition with the requested name exists in the
	// searched region of any corpus file.
	ErrNotFound = errors.New("not found")
	// ErrMalformed means a definition header matched but its body never
	// closed before the end of the file.
	ErrMalformed = errors.New("malformed")
)

// LookupError describes a failed declaration or enum lookup.
type LookupError struct {
	Kind      string // "declaration" or "enum"
	Name      string
	Namespace string
	File      string // set for ErrMalformed
	Err       error
}

func (e *LookupError) Error() string {
	target := e.Name
	if e.Namespace != "" {
		target = e.Namespace + "::" + e.Name
	}
	if e.File != "" {
		return fmt.Sprintf("%s %s in %s: %v", e.Kind, target, e.File, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, target, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFound lookup result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed reports whether err is a Malformed lookup result.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
