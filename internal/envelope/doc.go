// Package envelope implements whole-file encryption for dbee database files.
//
// Sealing derives a 256-bit key from the user's password with Argon2id and a
// fresh random salt, then encrypts the entire file with AES-256-GCM under a
// fresh random nonce. Salt and nonce are stored in the clear inside the
// sealed file, making it self-describing: unsealing needs only the password.
//
// Security considerations:
//   - Decryption is authenticated; a wrong password or a flipped bit is
//     rejected instead of producing garbage
//   - Sealing a sealed file and unsealing a plain file both fail, so a file
//     can never be double-encrypted or corrupted by a repeated command
//   - Replacement writes go through a temp file and rename, so the original
//     bytes survive a crash mid-operation
package envelope
