// Package session stores one-shot flash messages in a signed cookie.
package session

import (
	"encoding/gob"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/heladeria/flavor-catalog/pkg/logger"
)

// Flash categories, used as CSS classes by the templates.
const (
	CategorySuccess = "success"
	CategoryInfo    = "info"
	CategoryDanger  = "danger"
)

type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

type FlashStore struct {
	store sessions.Store
	name  string
}

func NewFlashStore(name, secret string) *FlashStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
	}
	return &FlashStore{store: store, name: name}
}

// Add queues a message for the next rendered page.
func (f *FlashStore) Add(c *gin.Context, category, message string) {
	sess, err := f.store.Get(c.Request, f.name)
	if err != nil {
		// tampered or rotated-secret cookie; Get still returns a fresh session
		logger.Warn("Discarding unreadable session cookie", map[string]interface{}{
			"error": err.Error(),
		})
	}
	sess.AddFlash(Flash{Category: category, Message: message})
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logger.Error("Failed to save flash message", err)
	}
}

// Pop returns and clears the queued messages.
func (f *FlashStore) Pop(c *gin.Context) []Flash {
	sess, err := f.store.Get(c.Request, f.name)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logger.Error("Failed to clear flash messages", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if fl, ok := v.(Flash); ok {
			flashes = append(flashes, fl)
		}
	}
	return flashes
}
