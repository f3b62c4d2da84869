package seal

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if cipher == nil {
		t.Fatal("expected non-nil cipher")
	}

	// Invalid key size (AES requires 16, 24, or 32 bytes)
	_, err = NewSymmetric(make([]byte, 15))
	if err == nil {
		t.Error("expected error with invalid key size")
	}
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{
			name:      "api key",
			aad:       []byte("author:42"),
			plaintext: []byte("2f5a1c09e4b7d8a6"),
		},
		{
			name:      "empty plaintext",
			aad:       []byte("author:42"),
			plaintext: []byte(""),
		},
		{
			name:      "long value",
			aad:       []byte("author:9000"),
			plaintext: bytes.Repeat([]byte("x"), 10000),
		},
		{
			name:      "binary data",
			aad:       []byte("binary"),
			plaintext: []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0xfd},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := cipher.Encrypt(tt.aad, tt.plaintext)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}

			if len(tt.plaintext) > 0 && bytes.Equal(ciphertext, tt.plaintext) {
				t.Error("ciphertext should differ from plaintext")
			}

			decrypted, err := cipher.Decrypt(tt.aad, ciphertext)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}

			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("decrypted doesn't match original: got %v, want %v", decrypted, tt.plaintext)
			}
		})
	}
}

func TestSymmetricEncryptIsRandomized(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	aad := []byte("author:1")
	plain := []byte("same plaintext")

	first, err := cipher.Encrypt(aad, plain)
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}
	second, err := cipher.Encrypt(aad, plain)
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	// Fresh nonce per call, so the packed values must differ.
	if bytes.Equal(first, second) {
		t.Error("two encryptions of the same plaintext produced identical ciphertexts")
	}
}

func TestSymmetricDecryptWithWrongAAD(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	ciphertext, err := cipher.Encrypt([]byte("author:1"), []byte("secret data"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	_, err = cipher.Decrypt([]byte("author:2"), ciphertext)
	if err == nil {
		t.Error("expected decryption to fail with wrong AAD")
	}
}

func TestSymmetricDecryptWithCorruptedCiphertext(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	aad := []byte("author:1")
	ciphertext, err := cipher.Encrypt(aad, []byte("secret data"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	// Flip a byte in the ciphertext body
	corrupted := make([]byte, len(ciphertext))
	copy(corrupted, ciphertext)
	corrupted[len(corrupted)-1] ^= 0xff

	if _, err := cipher.Decrypt(aad, corrupted); err == nil {
		t.Error("expected decryption to fail with corrupted ciphertext")
	}

	// Truncated input
	if _, err := cipher.Decrypt(aad, ciphertext[:10]); err == nil {
		t.Error("expected decryption to fail with truncated ciphertext")
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	cipherTextWithTag := bytes.Repeat([]byte{0xab}, 40)
	iv := bytes.Repeat([]byte{0xcd}, ivSize)

	packed := PackCipherData(cipherTextWithTag, iv)
	if packed[0] != versionMagic {
		t.Errorf("expected version magic %q, got %q", versionMagic, packed[0])
	}

	gotCipherText, gotIV := UnpackCipherData(packed)
	if !bytes.Equal(gotIV, iv) {
		t.Errorf("iv mismatch: got %v, want %v", gotIV, iv)
	}
	if !bytes.Equal(gotCipherText, cipherTextWithTag) {
		t.Errorf("ciphertext mismatch: got %v, want %v", gotCipherText, cipherTextWithTag)
	}
}
