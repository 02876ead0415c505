package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/notehub/internal/pkg/filestorage"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		db     pinger
		status int
		body   string
	}{
		{"healthy", fakePinger{}, http.StatusOK, `"postgresql":"ok"`},
		{"database down", fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable, `"postgresql":"unreachable"`},
		{"no database", nil, http.StatusOK, `"postgresql":"not configured"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthHandler(tt.db))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestMountStorage_ServesAvatarsOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://files.test/storage")
	require.NoError(t, err)
	_, err = storage.Put(ctx, filestorage.NamespaceNotes, "owner/abc.pdf", strings.NewReader("%PDF-1.4 secret"))
	require.NoError(t, err)
	_, err = storage.Put(ctx, filestorage.NamespaceAvatars, "owner/avatar.png", strings.NewReader("png"))
	require.NoError(t, err)

	r := gin.New()
	mountStorage(r, storage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/notes/owner/abc.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/avatars/owner/avatar.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
