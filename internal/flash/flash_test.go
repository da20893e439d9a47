package flash

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, w
}

func flashCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestAddThenPopAcrossRequests(t *testing.T) {
	store := NewStore("secret key")

	c, w := newContext()
	store.Add(c, "No file part")
	store.Add(c, "second")
	ck := flashCookie(t, w)

	next, _ := newContext(ck)
	assert.Equal(t, []string{"No file part", "second"}, store.Pop(next))
	assert.Empty(t, store.Pop(next))
}

func TestPopInSameRequest(t *testing.T) {
	store := NewStore("secret key")

	c, _ := newContext()
	store.Add(c, "Image successfully uploaded and displayed below")
	assert.Equal(t, []string{"Image successfully uploaded and displayed below"}, store.Pop(c))
}

func TestTamperedCookieIgnored(t *testing.T) {
	store := NewStore("secret key")

	c, w := newContext()
	store.Add(c, "hello")
	ck := flashCookie(t, w)

	_, sig, _ := strings.Cut(ck.Value, ".")
	forged := *ck
	forged.Value = base64.RawURLEncoding.EncodeToString([]byte(`["forged"]`)) + "." + sig
	next, _ := newContext(&forged)
	assert.Empty(t, store.Pop(next))

	other, _ := newContext(ck)
	assert.Empty(t, NewStore("different").Pop(other))
}

func TestPopClearsCookie(t *testing.T) {
	store := NewStore("k")

	c, w := newContext()
	store.Add(c, "msg")
	ck := flashCookie(t, w)

	next, nw := newContext(ck)
	require.Len(t, store.Pop(next), 1)

	var cleared bool
	for _, rc := range nw.Result().Cookies() {
		if rc.Name == CookieName && rc.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
