package handler

import (
	"net/http"

	"chatspace/internal/apperr"
	"chatspace/internal/entity"
	"chatspace/internal/middleware"
	"chatspace/internal/service"
	"chatspace/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/samber/lo"
)

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
	cookieStore *sessions.CookieStore
	renderer    *view.PageRenderer
	maxUpload   int64
}

// userCard is what the home page shows per conversation target.
type userCard struct {
	ID         uint
	Username   string
	Bio        string
	AvatarFile string
}

func NewUserHandler(userService service.UserService, authService service.AuthService, cookieStore *sessions.CookieStore, renderer *view.PageRenderer, maxUpload int64) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		cookieStore: cookieStore,
		renderer:    renderer,
		maxUpload:   maxUpload,
	}
}

// Home lists every other account as a conversation target. Anonymous
// visitors get the welcome variant of the page, not a redirect.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")
	userID, ok1 := session.Values["user_id"].(uint)
	username, ok2 := session.Values["username"].(string)

	success, danger := takeFlashes(w, r, h.cookieStore)
	data := map[string]any{"Success": success, "Danger": danger}

	if ok1 && ok2 {
		others, err := h.userService.ListConversationTargets(userID)
		if err != nil {
			http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
			return
		}
		data["LoggedUser"] = username
		data["Users"] = lo.Map(others, func(u *entity.User, _ int) userCard {
			return userCard{ID: u.ID, Username: u.Username, Bio: u.Bio, AvatarFile: u.AvatarFile}
		})
	}

	if err := h.renderer.RenderTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodPost {
		h.updateProfile(w, r, sessionUser)
		return
	}

	user, err := h.userService.GetByID(sessionUser.ID)
	if err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}

	success, danger := takeFlashes(w, r, h.cookieStore)
	data := map[string]any{
		"LoggedUser": user.Username,
		"Bio":        user.Bio,
		"AvatarFile": user.AvatarFile,
		"Success":    success,
		"Danger":     danger,
	}
	if err := h.renderer.RenderTemplate(w, "profile.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request, sessionUser entity.User) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	filename, data, err := readUpload(r, "avatar_file", h.maxUpload)
	if err != nil {
		failForm(w, r, h.cookieStore, err, "/profile")
		return
	}
	// Avatar first: a rejected file must not go through with a bio update
	// pretending everything succeeded.
	if len(data) > 0 {
		if _, err := h.userService.SetAvatar(&sessionUser, filename, data); err != nil {
			failForm(w, r, h.cookieStore, err, "/profile")
			return
		}
	}

	if err := h.userService.UpdateBio(sessionUser.ID, r.FormValue("bio")); err != nil {
		failForm(w, r, h.cookieStore, err, "/profile")
		return
	}

	addFlash(w, r, h.cookieStore, flashSuccess, "Profile updated successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DeleteAccount removes the account named in the path, which must be the
// session user's own.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if mux.Vars(r)["username"] != sessionUser.Username {
		http.Error(w, "You can only delete your own account", http.StatusForbidden)
		return
	}

	if err := h.authService.DeleteAccount(sessionUser.ID); err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}

	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Options.MaxAge = -1
	sessions.Save(r, w)
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}
