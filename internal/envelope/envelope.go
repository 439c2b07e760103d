package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// Envelope layout constants. The on-disk format of a sealed file is:
//
//	offset 0   5  magic "DBEE\x01"
//	offset 5   1  format version (currently 0x01)
//	offset 6  16  Argon2id salt
//	offset 22 12  AES-256-GCM nonce
//	offset 34  N  ciphertext followed by the 16-byte GCM tag
//
// Salt and nonce are stored in the clear; both are generated fresh on every
// seal. The GCM tag authenticates the ciphertext, so a wrong password and a
// corrupted file are indistinguishable and both refuse to unseal.
const (
	formatVersion = 0x01

	saltLength  = 16
	nonceLength = 12
	keyLength   = 32

	// Argon2id parameters (RFC 9106 low-memory recommendation).
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4

	// filePermissions is the mode applied to sealed and unsealed output.
	filePermissions = 0600
)

// magic identifies a sealed dbee file.
var magic = []byte("DBEE\x01")

// headerLength is the size of everything before the ciphertext.
const headerLength = 5 + 1 + saltLength + nonceLength

// Sentinel errors for the failure modes of sealing and unsealing.
var (
	ErrPasswordMismatch = errors.New("envelope: password and confirmation do not match")
	ErrAlreadySealed    = errors.New("envelope: file is already locked")
	ErrNotSealed        = errors.New("envelope: file is not locked")
	ErrWrongPassword    = errors.New("envelope: wrong password or corrupted file")
	ErrFileNotFound     = errors.New("envelope: file does not exist")
)

// IsSealed reports whether the file at path carries the envelope magic.
//
// A file shorter than the envelope header is never considered sealed.
//
// Parameters:
//   - path: File to probe
//
// Returns:
//   - bool: true if the file begins with the sealed-file magic
//   - error: If the file cannot be opened or read
func IsSealed(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, ErrFileNotFound
		}
		return false, fmt.Errorf("envelope: opening file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only probe

	prefix := make([]byte, len(magic))
	if _, err := io.ReadFull(f, prefix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, fmt.Errorf("envelope: reading file header: %w", err)
	}

	return bytes.Equal(prefix, magic), nil
}

// Seal encrypts the file at path in place using a key derived from password.
//
// The password must be supplied twice; mismatched inputs fail before any file
// access. Sealing an already-sealed file fails rather than double-encrypting.
// The replacement is atomic: the plaintext is never left half-overwritten.
//
// Parameters:
//   - path: Database file to encrypt
//   - password: Encryption password
//   - confirm: Second entry of the same password
//
// Returns:
//   - error: ErrPasswordMismatch, ErrFileNotFound, ErrAlreadySealed, or an
//     I/O error; nil on success
func Seal(path, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}

	sealed, err := IsSealed(path)
	if err != nil {
		return err
	}
	if sealed {
		return ErrAlreadySealed
	}

	plaintext, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("envelope: reading file: %w", err)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("envelope: generating salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("envelope: generating nonce: %w", err)
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return err
	}

	out := make([]byte, 0, headerLength+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, formatVersion)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	if err := replaceFile(path, out); err != nil {
		return err
	}

	return nil
}

// Unseal decrypts the file at path in place using a key derived from password.
//
// Authenticated decryption guarantees the restored bytes match what was
// sealed: a wrong password or any corruption fails with ErrWrongPassword and
// leaves the sealed file untouched.
//
// Parameters:
//   - path: Sealed file to decrypt
//   - password: Password used when sealing
//
// Returns:
//   - error: ErrFileNotFound, ErrNotSealed, ErrWrongPassword, or an I/O
//     error; nil on success
func Unseal(path, password string) error {
	sealed, err := IsSealed(path)
	if err != nil {
		return err
	}
	if !sealed {
		return ErrNotSealed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("envelope: reading file: %w", err)
	}
	if len(data) < headerLength {
		return ErrWrongPassword
	}

	version := data[len(magic)]
	if version != formatVersion {
		return fmt.Errorf("envelope: unsupported format version %d", version)
	}

	salt := data[6 : 6+saltLength]
	nonce := data[6+saltLength : headerLength]
	ciphertext := data[headerLength:]

	aead, err := newAEAD(password, salt)
	if err != nil {
		return err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// GCM tag mismatch. Wrong password and corrupted ciphertext are
		// indistinguishable here, which is exactly the guarantee we want.
		return ErrWrongPassword
	}

	if err := replaceFile(path, plaintext); err != nil {
		return err
	}

	return nil
}

// newAEAD derives the AES-256 key from password and salt and wraps it in GCM.
func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: initialising cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("envelope: initialising GCM: %w", err)
	}
	return aead, nil
}

// replaceFile writes data to a temporary file next to path, syncs it, and
// renames it over the original. The original is preserved on any failure.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dbee-*")
	if err != nil {
		return fmt.Errorf("envelope: creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()        //nolint:errcheck // Best effort on error path
		os.Remove(tmpPath) //nolint:errcheck // Best effort on error path
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("envelope: writing temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("envelope: syncing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort on error path
		return fmt.Errorf("envelope: closing temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort on error path
		return fmt.Errorf("envelope: setting file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort on error path
		return fmt.Errorf("envelope: replacing file: %w", err)
	}

	return nil
}
