package handler

import (
	"net/http"

	"chatspace/internal/service"
	"chatspace/internal/view"

	"github.com/gorilla/sessions"
)

type AuthHandler struct {
	authService service.AuthService
	cookieStore *sessions.CookieStore
	renderer    *view.PageRenderer
}

func NewAuthHandler(authService service.AuthService, cookieStore *sessions.CookieStore, renderer *view.PageRenderer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
		renderer:    renderer,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		success, danger := takeFlashes(w, r, h.cookieStore)
		data := map[string]any{"Success": success, "Danger": danger}
		if err := h.renderer.RenderTemplate(w, "register.html", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	if _, err := h.authService.Register(username, password); err != nil {
		failForm(w, r, h.cookieStore, err, "/register")
		return
	}
	addFlash(w, r, h.cookieStore, flashSuccess, "Account created successfully. Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		success, danger := takeFlashes(w, r, h.cookieStore)
		data := map[string]any{"Success": success, "Danger": danger}
		if err := h.renderer.RenderTemplate(w, "login.html", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Login(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		failForm(w, r, h.cookieStore, err, "/login")
		return
	}

	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.AddFlash("Logged in successfully!", flashSuccess)
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout drops the identity keys but keeps the session alive: the farewell
// flash still has to reach the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")
	delete(session.Values, "user_id")
	delete(session.Values, "username")
	session.AddFlash("You have been logged out.", flashSuccess)
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
