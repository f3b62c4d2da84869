package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/seal"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure AuthorsStore implements store.AuthorsStore
var _ store.AuthorsStore = (*AuthorsStore)(nil)

// AuthorsStore implements store.AuthorsStore using GORM
type AuthorsStore struct {
	db *gorm.DB
}

// NewAuthorsStore creates a new AuthorsStore
func NewAuthorsStore(db *gorm.DB) *AuthorsStore {
	return &AuthorsStore{db: db}
}

func toStoreAuthor(a *model.Author) *store.Author {
	return &store.Author{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		PasswordDigest: a.PasswordDigest,
		CreatedAt:      a.CreatedAt,
	}
}

// CreateAuthor creates an author.
func (s *AuthorsStore) CreateAuthor(author *store.Author) error {
	m := model.Author{
		Name:           author.Name,
		Email:          author.Email,
		PasswordDigest: author.PasswordDigest,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return mapError(err)
	}
	author.ID = m.ID
	author.CreatedAt = m.CreatedAt
	return nil
}

// GetAuthorByEmail retrieves an author by email.
func (s *AuthorsStore) GetAuthorByEmail(email string) (*store.Author, error) {
	var m model.Author
	if err := s.db.Where("email = ?", email).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toStoreAuthor(&m), nil
}

// GetAuthorByID retrieves an author by id.
func (s *AuthorsStore) GetAuthorByID(id int64) (*store.Author, error) {
	var m model.Author
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	return toStoreAuthor(&m), nil
}

// SetPasswordDigest replaces the author's bcrypt digest.
func (s *AuthorsStore) SetPasswordDigest(id int64, digest []byte) error {
	res := s.db.Model(&model.Author{}).Where("id = ?", id).
		Update("password_digest", digest)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetAPIKey stores a new API key for the author. The credential row is
// created on first use; the model hook encrypts the key via the session
// cipher, so a missing cipher surfaces here as ErrCipherMissing.
func (s *AuthorsStore) SetAPIKey(authorID int64, key []byte, rotatedAt time.Time) error {
	var count int64
	if err := s.db.Model(&model.Author{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return mapError(err)
	}
	if count == 0 {
		return store.ErrNotFound
	}

	cred := model.Credential{
		AuthorID:  authorID,
		APIKey:    key,
		RotatedAt: &rotatedAt,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Delete-then-create keeps the BeforeSave encryption hook on the
		// write path for both first issue and rotation.
		if err := tx.Where("author_id = ?", authorID).Delete(&model.Credential{}).Error; err != nil {
			return mapCipherError(err)
		}
		if err := tx.Create(&cred).Error; err != nil {
			return mapCipherError(err)
		}
		return nil
	})
}

// GetAPIKey returns the decrypted API key for the author.
func (s *AuthorsStore) GetAPIKey(authorID int64) ([]byte, error) {
	var cred model.Credential
	if err := s.db.Where("author_id = ?", authorID).First(&cred).Error; err != nil {
		return nil, mapCipherError(err)
	}
	if len(cred.APIKey) == 0 {
		return nil, store.ErrNotFound
	}
	return cred.APIKey, nil
}

func mapCipherError(err error) error {
	if errors.Is(err, seal.ErrNoCipher) {
		return store.ErrCipherMissing
	}
	return mapError(err)
}
