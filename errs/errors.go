// Package errs defines the error taxonomy shared by all repak packages.
//
// Sentinel errors support errors.Is checks across package boundaries, while
// the structured error types (DeserError, AlreadyExistsError) carry the
// human-readable cause and still unwrap to their sentinel kind.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrLeb128 indicates a malformed, truncated or overflowing
	// variable-length integer.
	ErrLeb128 = errors.New("malformed LEB128 integer")

	// ErrOffsetTooLarge indicates a stored offset that does not fit the
	// platform's seek range.
	ErrOffsetTooLarge = errors.New("offset exceeds seekable range")

	// ErrInvalidUTF8 indicates an entry name that is not well-formed UTF-8.
	ErrInvalidUTF8 = errors.New("entry name is not valid UTF-8")

	// ErrFileNotFound indicates that the archive to open does not exist.
	ErrFileNotFound = errors.New("archive file not found")

	// ErrDeser is the kind shared by all structural deserialization
	// failures. Use errors.Is(err, errs.ErrDeser) to match any of them.
	ErrDeser = errors.New("deserialization failed")

	// ErrAlreadyExists indicates an append that would create a duplicate
	// entry name.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrUnsupported indicates a wire-valid algorithm tag with no
	// implementation behind it.
	ErrUnsupported = errors.New("unsupported algorithm")
)

// DeserError reports a structural violation found while deserializing:
// bad magic, unknown algorithm tag, unsupported version, nonzero reserved
// field, checksum mismatch.
type DeserError struct {
	Reason string
}

func (e *DeserError) Error() string {
	return e.Reason
}

func (e *DeserError) Unwrap() error {
	return ErrDeser
}

// Deser creates a DeserError with the given reason.
func Deser(reason string) error {
	return &DeserError{Reason: reason}
}

// Deserf creates a DeserError with a formatted reason.
func Deserf(format string, args ...any) error {
	return &DeserError{Reason: fmt.Sprintf(format, args...)}
}

// AlreadyExistsError reports the name of the entry a duplicate append
// collided with.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("entry %q already exists", e.Name)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// AlreadyExists creates an AlreadyExistsError for the given entry name.
func AlreadyExists(name string) error {
	return &AlreadyExistsError{Name: name}
}
