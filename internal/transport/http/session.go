package http

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookieName = "hotspot_quiz_session"

// sessionID returns the player's session from the cookie, minting one if absent.
// The returned cookie is nil when the request already carried a valid session.
func sessionID(r *http.Request) (string, *http.Cookie) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, nil
		}
	}
	id := uuid.NewString()
	return id, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func getOrSetSessionID(w http.ResponseWriter, r *http.Request) string {
	id, cookie := sessionID(r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return id
}
