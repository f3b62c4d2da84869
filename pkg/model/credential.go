package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/seal"
)

// Credential holds an author's API key, encrypted at rest with the data key.
// The AAD ties the ciphertext to the owning author row.
type Credential struct {
	AuthorID  int64      `gorm:"column:author_id;primaryKey"`
	APIKey    []byte     `gorm:"column:api_key;type:bytea"`
	RotatedAt *time.Time `gorm:"column:rotated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (c *Credential) aad() []byte {
	return []byte(fmt.Sprintf("author:%d", c.AuthorID))
}

func (c *Credential) BeforeSave(tx *gorm.DB) error {
	if len(c.APIKey) == 0 {
		return nil
	}

	cipher, ok := seal.CipherForDB(tx)
	if !ok {
		return fmt.Errorf("%w, cannot store api key for author_id=%d", seal.ErrNoCipher, c.AuthorID)
	}

	encrypted, err := cipher.Encrypt(c.aad(), c.APIKey)
	if err != nil {
		return fmt.Errorf("api key encryption failed for author_id=%d", c.AuthorID)
	}
	c.APIKey = encrypted
	return nil
}

func (c *Credential) AfterFind(tx *gorm.DB) error {
	if len(c.APIKey) == 0 {
		return nil
	}

	cipher, ok := seal.CipherForDB(tx)
	if !ok {
		return fmt.Errorf("%w, cannot read api key for author_id=%d", seal.ErrNoCipher, c.AuthorID)
	}

	decrypted, err := cipher.Decrypt(c.aad(), c.APIKey)
	if err != nil {
		return fmt.Errorf("api key decryption failed for author_id=%d", c.AuthorID)
	}
	c.APIKey = decrypted
	return nil
}
