// Package seal provides column-level encryption for sensitive values.
//
// Values are encrypted with AES-256-GCM using the server data key. The
// additional authenticated data ties each ciphertext to the record that owns
// it, so a value copied between rows fails to decrypt.
//
// # Stored format
//
// Encrypted values are packed as:
//
//	magic (1 byte) || tag (16 bytes) || iv (12 bytes) || ciphertext
//
// # Usage
//
//	cipher, err := seal.NewSymmetric(dataKey)
//	packed, err := cipher.Encrypt([]byte("author:42"), apiKey)
//	plain, err := cipher.Decrypt([]byte("author:42"), packed)
//
// The cipher is bound into the GORM session context with seal.WithCipher and
// recovered in model hooks with seal.CipherForDB.
//
// # Environment Variables
//
//   - INKWELL_DATA_KEY: Base64-encoded 256-bit data encryption key
package seal
