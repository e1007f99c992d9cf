package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kama_address_book/internal/addresses"
	"kama_address_book/internal/dto/respond"
	"kama_address_book/internal/eventloop"
	ws "kama_address_book/internal/gateway/websocket"
	"kama_address_book/internal/listmodel"
	"kama_address_book/internal/registry"
	"kama_address_book/pkg/errorx"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	addrs := addresses.New(contacts)

	loop := eventloop.New(16)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	h := NewHandlers(loop, contacts, addrs, ws.NewHub())
	r := gin.New()
	c := r.Group("/contacts")
	c.GET("/rowCount", h.Contacts.RowCountHandler)
	c.GET("/roleNames", h.Contacts.RoleNamesHandler)
	c.GET("/data", h.Contacts.DataHandler)
	c.GET("/rows", h.Contacts.RowsHandler)
	c.POST("/addContact", h.Contacts.AddContactHandler)
	c.POST("/importVcard", h.Contacts.ImportVcardHandler)
	c.POST("/removeContact", h.Contacts.RemoveContactHandler)
	c.POST("/removeRow", h.Contacts.RemoveRowHandler)
	c.POST("/removeRows", h.Contacts.RemoveRowsHandler)
	a := r.Group("/addresses")
	a.GET("/rowCount", h.Addresses.RowCountHandler)
	a.GET("/data", h.Addresses.DataHandler)
	a.GET("/contact", h.Addresses.ContactHandler)
	return r
}

func do(t *testing.T, r *gin.Engine, method, target, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func add(t *testing.T, r *gin.Engine, name string) respond.ContactRespond {
	t.Helper()
	env := do(t, r, http.MethodPost, "/contacts/addContact",
		`{"username":"`+name+`","sipAddresses":["sip:`+name+`@example.org"]}`)
	require.Equal(t, errorx.CodeSuccess, env.Code, string(env.Msg))
	return decode[respond.ContactRespond](t, env)
}

func rowCount(t *testing.T, r *gin.Engine, prefix string) int {
	t.Helper()
	return decode[respond.RowCountRespond](t, do(t, r, http.MethodGet, prefix+"/rowCount", "")).RowCount
}

func TestAddAndReadRows(t *testing.T) {
	r := newTestEngine(t)

	a := add(t, r, "alice")
	b := add(t, r, "bob")
	assert.Equal(t, 0, a.Row)
	assert.Equal(t, 1, b.Row)
	assert.Equal(t, "offline", b.PresenceStatus)
	assert.Equal(t, 2, rowCount(t, r, "/contacts"))

	env := do(t, r, http.MethodGet, "/contacts/data?row=1&role=username", "")
	assert.Equal(t, "bob", decode[string](t, env))

	env = do(t, r, http.MethodGet, "/contacts/data?row=0&role=$contact", "")
	assert.Equal(t, a.RefKey, decode[respond.ContactRespond](t, env).RefKey)

	// 越界和未知字段都返回 null
	env = do(t, r, http.MethodGet, "/contacts/data?row=2&role=username", "")
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	assert.Equal(t, "null", string(env.Data))
	env = do(t, r, http.MethodGet, "/contacts/data?row=0&role=nickname", "")
	assert.Equal(t, "null", string(env.Data))

	page := decode[respond.RowsRespond](t, do(t, r, http.MethodGet, "/contacts/rows?offset=1&limit=5", ""))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "bob", page.Rows[0].Username)
}

func TestRoleNames(t *testing.T) {
	r := newTestEngine(t)
	roles := decode[[]respond.RoleRespond](t, do(t, r, http.MethodGet, "/contacts/roleNames", ""))
	require.Len(t, roles, 5)
	assert.Equal(t, respond.RoleRespond{Role: 0, Name: "$contact"}, roles[0])
	assert.Equal(t, respond.RoleRespond{Role: 0x103, Name: "presenceStatus"}, roles[4])
}

func TestReadRequestValidation(t *testing.T) {
	r := newTestEngine(t)
	add(t, r, "alice")

	// 缺少 row 不会默认读第 0 行
	env := do(t, r, http.MethodGet, "/contacts/data?role=username", "")
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
	env = do(t, r, http.MethodGet, "/addresses/data?role=sipAddress", "")
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)

	env = do(t, r, http.MethodGet, "/contacts/rows?limit=201", "")
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
	page := decode[respond.RowsRespond](t, do(t, r, http.MethodGet, "/contacts/rows?limit=200", ""))
	assert.Len(t, page.Rows, 1)
}

func TestAddContactValidation(t *testing.T) {
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/contacts/addContact", `{"username":"eve","sipAddresses":["eve@example.org"]}`)
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
	env = do(t, r, http.MethodPost, "/contacts/addContact", `{"sipAddresses":["sip:eve@example.org"]}`)
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
	assert.Equal(t, 0, rowCount(t, r, "/contacts"))
}

func TestRemoveOperations(t *testing.T) {
	r := newTestEngine(t)
	a := add(t, r, "alice")
	add(t, r, "bob")
	add(t, r, "carol")

	env := do(t, r, http.MethodPost, "/contacts/removeRow", `{"row":3}`)
	assert.Equal(t, errorx.CodeOutOfRange, env.Code)

	env = do(t, r, http.MethodPost, "/contacts/removeRows", `{"row":1,"count":0}`)
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	env = do(t, r, http.MethodPost, "/contacts/removeRows", `{"row":1,"count":3}`)
	assert.Equal(t, errorx.CodeOutOfRange, env.Code)
	assert.Equal(t, 3, rowCount(t, r, "/contacts"))

	env = do(t, r, http.MethodPost, "/contacts/removeRows", `{"row":1,"count":2}`)
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	assert.Equal(t, 1, rowCount(t, r, "/contacts"))

	env = do(t, r, http.MethodPost, "/contacts/removeContact", `{"refKey":"`+a.RefKey+`"}`)
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	// 再删一次仍然成功
	env = do(t, r, http.MethodPost, "/contacts/removeContact", `{"refKey":"`+a.RefKey+`"}`)
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	assert.Equal(t, 0, rowCount(t, r, "/contacts"))

	env = do(t, r, http.MethodPost, "/contacts/removeRow", `{}`)
	assert.Equal(t, errorx.CodeInvalidParam, env.Code)
}

func TestImportVcard(t *testing.T) {
	r := newTestEngine(t)
	text := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Carol\r\nIMPP:sip:carol@example.org\r\nEND:VCARD\r\n"

	env := do(t, r, http.MethodPost, "/contacts/importVcard", text)
	require.Equal(t, errorx.CodeSuccess, env.Code, string(env.Msg))
	c := decode[respond.ContactRespond](t, env)
	assert.Equal(t, "Carol", c.Username)
	assert.Equal(t, "sip:carol@example.org", c.SipAddress)

	env = do(t, r, http.MethodPost, "/contacts/importVcard", "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:NoAddress\r\nEND:VCARD\r\n")
	assert.Equal(t, errorx.CodeInvalidProfile, env.Code)
}

func TestAddressesFollowContacts(t *testing.T) {
	r := newTestEngine(t)
	add(t, r, "bob")
	alice := add(t, r, "alice")

	assert.Equal(t, 2, rowCount(t, r, "/addresses"))
	env := do(t, r, http.MethodGet, "/addresses/data?row=0&role=sipAddress", "")
	assert.Equal(t, "sip:alice@example.org", decode[string](t, env))

	env = do(t, r, http.MethodGet, "/addresses/contact?sipAddress=sip:alice@example.org", "")
	found := decode[respond.ContactRespond](t, env)
	assert.Equal(t, alice.RefKey, found.RefKey)
	assert.Equal(t, 1, found.Row)

	env = do(t, r, http.MethodGet, "/addresses/contact?sipAddress=sip:nobody@example.org", "")
	assert.Equal(t, errorx.CodeNotFound, env.Code)

	do(t, r, http.MethodPost, "/contacts/removeRow", `{"row":1}`)
	assert.Equal(t, 1, rowCount(t, r, "/addresses"))
}

func TestClosedLoopReportsServerBusy(t *testing.T) {
	contacts, err := listmodel.New(registry.NewMemory("default"))
	require.NoError(t, err)
	loop := eventloop.New(1)
	loop.Close()

	h := NewContactsHandler(loop, contacts)
	r := gin.New()
	r.GET("/contacts/rowCount", h.RowCountHandler)

	env := do(t, r, http.MethodGet, "/contacts/rowCount", "")
	assert.Equal(t, errorx.CodeServerBusy, env.Code)
}
