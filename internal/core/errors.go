package core

import (
	"errors"
	"fmt"

	"github.com/illarion/vaultic/internal/crypto"
)

// ErrorKind classifies vault failures so callers can branch on them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindPath: a directory or file could not be created, read or written.
	KindPath
	// KindMalformedBlob: the vault file is shorter than nonce + tag.
	KindMalformedBlob
	// KindAuthentication: wrong passphrase or modified vault file.
	// The two causes cannot be told apart.
	KindAuthentication
	// KindDeserialization: decrypted bytes are not a valid document.
	KindDeserialization
	// KindInvalidEntry: a service name or secret cannot be stored as is.
	KindInvalidEntry
)

func (k ErrorKind) String() string {
	switch k {
	case KindPath:
		return "path error"
	case KindMalformedBlob:
		return "malformed blob"
	case KindAuthentication:
		return "authentication failure"
	case KindDeserialization:
		return "deserialization error"
	case KindInvalidEntry:
		return "invalid entry"
	default:
		return "unknown error"
	}
}

var (
	ErrMalformedBlob   = crypto.ErrMalformedBlob
	ErrAuthFailed      = crypto.ErrAuthFailed
	ErrDeserialization = errors.New("vault document is invalid")
	ErrInvalidUTF8     = errors.New("service and password must be valid UTF-8")
)

// Error is returned by every Vault operation that fails.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedBlob:
		return e.Kind == KindMalformedBlob
	case ErrAuthFailed:
		return e.Kind == KindAuthentication
	case ErrDeserialization:
		return e.Kind == KindDeserialization
	case ErrInvalidUTF8:
		return e.Kind == KindInvalidEntry
	}
	return false
}

// KindOf returns the kind of a vault error, or KindUnknown.
func KindOf(err error) ErrorKind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindUnknown
}

func pathError(op string, err error) error {
	return &Error{Kind: KindPath, Op: op, Err: err}
}

// cryptoError classifies a Decrypt failure
func cryptoError(op string, err error) error {
	switch {
	case errors.Is(err, crypto.ErrMalformedBlob):
		return &Error{Kind: KindMalformedBlob, Op: op, Err: err}
	case errors.Is(err, crypto.ErrAuthFailed):
		return &Error{Kind: KindAuthentication, Op: op, Err: err}
	default:
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
}
