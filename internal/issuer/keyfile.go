package issuer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// maxKeyFileSize bounds how much of the key file is read. A PEM-encoded
// P-256 key is well under 1 KiB.
const maxKeyFileSize = 64 << 10

// ReadKeyFile reads the private key file at path. The file handle is closed
// before returning on every path.
func ReadKeyFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &KeyReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &KeyReadError{Path: path, Err: fmt.Errorf("stat: %w", err)}
	}
	if info.IsDir() {
		return nil, &KeyReadError{Path: path, Err: errIsDirectory}
	}

	data, err := io.ReadAll(io.LimitReader(f, maxKeyFileSize+1))
	if err != nil {
		return nil, &KeyReadError{Path: path, Err: err}
	}
	if len(data) > maxKeyFileSize {
		return nil, &KeyReadError{Path: path, Err: errKeyFileTooLarge}
	}

	return data, nil
}

// ParseKey parses a PEM-encoded EC private key (PKCS #8 or SEC 1) and checks
// that it is usable with ES256.
func ParseKey(data []byte) (*ecdsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, &KeyFormatError{Err: errEmptyKey}
	}

	key, err := jwt.ParseECPrivateKeyFromPEM(data)
	if err != nil {
		return nil, &KeyFormatError{Err: err}
	}
	if key.Curve != elliptic.P256() {
		return nil, &KeyFormatError{Err: fmt.Errorf("%w: got %s", errWrongCurve, key.Curve.Params().Name)}
	}

	return key, nil
}

// LoadKey reads and parses the key file at path.
func LoadKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := ReadKeyFile(path)
	if err != nil {
		return nil, err
	}

	key, err := ParseKey(data)
	if err != nil {
		var fe *KeyFormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}

	return key, nil
}
