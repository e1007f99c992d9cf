package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kama_address_book/internal/config"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{FileName: filepath.Join(dir, "app.log"), Level: "debug"}
	require.NoError(t, Init(cfg, "release"))
	defer zap.ReplaceGlobals(zap.NewNop())

	zap.L().Info("contacts list model loaded", zap.Int("rows", 3))
	_ = zap.L().Sync()

	data, err := os.ReadFile(cfg.FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "contacts list model loaded")
	assert.Equal(t, 100, cfg.MaxSize)
}

func TestInitRejectsBadLevel(t *testing.T) {
	assert.Error(t, Init(&config.LogConfig{FileName: filepath.Join(t.TempDir(), "x.log"), Level: "loud"}, "release"))
	assert.Error(t, Init(nil, "release"))
}

func TestGinRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger(), GinRecovery(true))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
