package middleware

import (
	"context"
	"net/http"

	"chatspace/internal/entity"

	"github.com/gorilla/sessions"
)

type contextKey string

const userKey contextKey = "user"

const SessionName = "auth-session"

// RequireAuth gates a handler behind the cookie session. The authenticated
// user lands in the request context; anonymous requests go to /login.
func RequireAuth(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, SessionName)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		userID, ok1 := session.Values["user_id"].(uint)
		username, ok2 := session.Values["username"].(string)
		if !(ok1 && ok2) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user := entity.User{
			ID:       userID,
			Username: username,
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// SessionUser pulls the authenticated user out of the request context.
func SessionUser(r *http.Request) (entity.User, bool) {
	user, ok := r.Context().Value(userKey).(entity.User)
	return user, ok
}
