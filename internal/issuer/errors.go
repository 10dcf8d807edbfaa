package issuer

import (
	"errors"
	"fmt"

	"github.com/dskow/token-issuer/internal/config"
)

// ErrorCode is a machine-readable classification of an issuance failure.
// Codes are stable; scripts wrapping the CLI can match on them.
type ErrorCode string

const (
	ConfigInvalid    ErrorCode = "ISSUER_CONFIG_INVALID"
	KeyReadFailed    ErrorCode = "ISSUER_KEY_READ_FAILED"
	KeyFormatInvalid ErrorCode = "ISSUER_KEY_FORMAT_INVALID"
	SigningFailed    ErrorCode = "ISSUER_SIGNING_FAILED"
	InternalError    ErrorCode = "ISSUER_INTERNAL_ERROR"
)

var (
	errKeyFileTooLarge = fmt.Errorf("key file exceeds %d bytes", maxKeyFileSize)
	errIsDirectory     = errors.New("path is a directory")
	errEmptyKey        = errors.New("key file is empty")
	errWrongCurve      = errors.New("EC key is not on curve P-256")
	errNilKey          = errors.New("no signing key")
)

// KeyReadError indicates the key file could not be opened or read.
type KeyReadError struct {
	Path string
	Err  error
}

func (e *KeyReadError) Error() string {
	return fmt.Sprintf("reading key file %s: %v", e.Path, e.Err)
}

func (e *KeyReadError) Unwrap() error { return e.Err }

// KeyFormatError indicates the key bytes are not a P-256 EC private key.
type KeyFormatError struct {
	Path string
	Err  error
}

func (e *KeyFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing key: %v", e.Err)
	}
	return fmt.Sprintf("parsing key file %s: %v", e.Path, e.Err)
}

func (e *KeyFormatError) Unwrap() error { return e.Err }

// SigningError indicates the ES256 signing operation failed.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing token: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// Code classifies err. Errors that did not originate in this package or in
// config map to InternalError.
func Code(err error) ErrorCode {
	var (
		ce *config.Error
		re *KeyReadError
		fe *KeyFormatError
		se *SigningError
	)
	switch {
	case errors.As(err, &ce):
		return ConfigInvalid
	case errors.As(err, &re):
		return KeyReadFailed
	case errors.As(err, &fe):
		return KeyFormatInvalid
	case errors.As(err, &se):
		return SigningFailed
	default:
		return InternalError
	}
}

// Step names the issuance step that produced err.
func Step(err error) string {
	switch Code(err) {
	case ConfigInvalid:
		return "config"
	case KeyReadFailed:
		return "read_key"
	case KeyFormatInvalid:
		return "parse_key"
	case SigningFailed:
		return "sign"
	default:
		return "unknown"
	}
}
