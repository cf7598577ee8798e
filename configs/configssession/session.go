package configssession

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

var store *session.Store

// SetupSession builds (once) and returns the cookie session store.
func SetupSession() *session.Store {
	if store != nil {
		return store
	}
	store = session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:orbit_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return store
}
