package endpoints

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

func TestCreateAuthor(t *testing.T) {
	p := newMockProvider()
	p.authors.On("CreateAuthor", mock.MatchedBy(func(a *store.Author) bool {
		return a.Email == "new@example.com" && a.Name == "New Author" &&
			auth.CheckPassword(a.PasswordDigest, "longenough") == nil
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*store.Author).ID = 42
	}).Return(nil)
	var stored []byte
	p.authors.On("SetAPIKey", int64(42), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]byte)
		}).Return(nil)

	body := `{"name": "New Author", "email": "new@example.com", "password": "longenough"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp AuthorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "new@example.com", resp.Email)

	decoded, err := hex.DecodeString(resp.APIKey)
	require.NoError(t, err)
	assert.Equal(t, stored, decoded)
}

func TestCreateAuthorRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"name": "X", "password": "longenough"}`},
		{"short password", `{"email": "x@example.com", "password": "short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newMockProvider()
			w := httptest.NewRecorder()
			newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors", strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			p.authors.AssertNotCalled(t, "CreateAuthor", mock.Anything)
		})
	}
}

func TestCreateAuthorDuplicateEmail(t *testing.T) {
	p := newMockProvider()
	p.authors.On("CreateAuthor", mock.Anything).Return(store.ErrDuplicate)

	body := `{"email": "taken@example.com", "password": "longenough"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRotateKey(t *testing.T) {
	p := newMockProvider()
	var stored []byte
	p.authors.On("SetAPIKey", testIdentity.AuthorID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]byte)
		}).Return(nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors/me/rotate-key", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RotateKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	decoded, err := hex.DecodeString(resp.APIKey)
	require.NoError(t, err)
	assert.Equal(t, stored, decoded)
	assert.Len(t, decoded, 32)
}

func TestChangePassword(t *testing.T) {
	digest, err := auth.HashPassword("oldsecret")
	require.NoError(t, err)

	p := newMockProvider()
	p.authors.On("GetAuthorByID", testIdentity.AuthorID).Return(&store.Author{
		ID: testIdentity.AuthorID, Email: testIdentity.Email, PasswordDigest: digest,
	}, nil)
	p.authors.On("SetPasswordDigest", testIdentity.AuthorID, mock.MatchedBy(func(d []byte) bool {
		return auth.CheckPassword(d, "newsecret123") == nil
	})).Return(nil)

	body := `{"current_password": "oldsecret", "new_password": "newsecret123"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors/me/password", strings.NewReader(body)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	p.authors.AssertExpectations(t)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	digest, err := auth.HashPassword("oldsecret")
	require.NoError(t, err)

	p := newMockProvider()
	p.authors.On("GetAuthorByID", testIdentity.AuthorID).Return(&store.Author{
		ID: testIdentity.AuthorID, Email: testIdentity.Email, PasswordDigest: digest,
	}, nil)

	body := `{"current_password": "wrong", "new_password": "newsecret123"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors/me/password", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	p.authors.AssertNotCalled(t, "SetPasswordDigest", mock.Anything, mock.Anything)
}

func TestChangePasswordTooShort(t *testing.T) {
	p := newMockProvider()

	body := `{"current_password": "oldsecret", "new_password": "short"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/authors/me/password", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.authors.AssertNotCalled(t, "GetAuthorByID", mock.Anything)
}
