package https_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kama_address_book/internal/addresses"
	"kama_address_book/internal/config"
	"kama_address_book/internal/eventloop"
	ws "kama_address_book/internal/gateway/websocket"
	"kama_address_book/internal/handler"
	"kama_address_book/internal/listmodel"
	"kama_address_book/internal/registry"
	"kama_address_book/pkg/util/jwt"
)

func newEngine(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf, err := config.Decode("[jwtConfig]\nsecret = \"" + secret + "\"\n")
	require.NoError(t, err)
	jwt.Init(conf.JWTConfig.Secret, conf.AccessTokenExpiry)

	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	loop := eventloop.New(8)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	return Init(conf, handler.NewHandlers(loop, contacts, addresses.New(contacts), ws.NewHub()))
}

func get(r http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesWithoutAuth(t *testing.T) {
	r := newEngine(t, "")
	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/contacts/rowCount", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/addresses/rowCount", "").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/contacts/unknown", "").Code)
}

func TestRoutesRequireTokenWhenSecretSet(t *testing.T) {
	r := newEngine(t, "server-secret")
	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/contacts/rowCount", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws/notifications", "").Code)

	token, err := jwt.GenerateAccessToken("viewer")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/contacts/rowCount", token).Code)
}
