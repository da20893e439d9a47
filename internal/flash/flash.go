// Package flash carries one-shot user messages across a redirect in an
// HMAC-signed cookie.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CookieName = "flash"

type Store struct {
	key []byte
}

func NewStore(secret string) *Store {
	return &Store{key: []byte(secret)}
}

// Add queues msg for the next Pop on this client.
func (s *Store) Add(c *gin.Context, msg string) {
	messages := append(s.read(c), msg)
	s.write(c, messages)
}

// Pop returns the queued messages and clears them.
func (s *Store) Pop(c *gin.Context) []string {
	messages := s.read(c)
	c.Set(CookieName, []string(nil))
	if len(messages) > 0 || hasCookie(c) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, "", -1, "/", "", false, true)
	}
	return messages
}

func hasCookie(c *gin.Context) bool {
	_, err := c.Cookie(CookieName)
	return err == nil
}

func (s *Store) read(c *gin.Context) []string {
	if pending, ok := c.Get(CookieName); ok {
		return pending.([]string)
	}

	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}

	payload, ok := s.verify(raw)
	if !ok {
		return nil
	}

	var messages []string
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}

func (s *Store) write(c *gin.Context, messages []string) {
	c.Set(CookieName, messages)

	payload, _ := json.Marshal(messages)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.sign(payload), 0, "/", "", false, true)
}

func (s *Store) sign(payload []byte) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.mac(payload))
}

func (s *Store) verify(raw string) ([]byte, bool) {
	enc := base64.RawURLEncoding

	body, sig, found := strings.Cut(raw, ".")
	if !found {
		return nil, false
	}
	payload, err := enc.DecodeString(body)
	if err != nil {
		return nil, false
	}
	mac, err := enc.DecodeString(sig)
	if err != nil || !hmac.Equal(mac, s.mac(payload)) {
		return nil, false
	}
	return payload, true
}

func (s *Store) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return h.Sum(nil)
}
