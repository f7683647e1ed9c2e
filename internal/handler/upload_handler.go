package handler

import (
	"net/http"
	"strconv"

	"chatspace/internal/apperr"
	"chatspace/internal/middleware"
	"chatspace/internal/service"
	"chatspace/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type UploadHandler struct {
	uploadService service.UploadService
	cookieStore   *sessions.CookieStore
	renderer      *view.PageRenderer
	maxUpload     int64
}

func NewUploadHandler(uploadService service.UploadService, cookieStore *sessions.CookieStore, renderer *view.PageRenderer, maxUpload int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		cookieStore:   cookieStore,
		renderer:      renderer,
		maxUpload:     maxUpload,
	}
}

// Index shows the session user's uploads and the upload form.
func (h *UploadHandler) Index(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	uploads, err := h.uploadService.List(sessionUser.ID)
	if err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}

	success, danger := takeFlashes(w, r, h.cookieStore)
	data := map[string]any{
		"LoggedUser": sessionUser.Username,
		"Uploads":    uploads,
		"Success":    success,
		"Danger":     danger,
	}
	if err := h.renderer.RenderTemplate(w, "uploads.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *UploadHandler) Store(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}
	filename, data, err := readUpload(r, "file", h.maxUpload)
	if err != nil {
		failForm(w, r, h.cookieStore, err, "/uploads")
		return
	}

	if _, err := h.uploadService.Store(sessionUser.ID, filename, data); err != nil {
		failForm(w, r, h.cookieStore, err, "/uploads")
		return
	}
	addFlash(w, r, h.cookieStore, flashSuccess, "File uploaded successfully!")
	http.Redirect(w, r, "/uploads", http.StatusSeeOther)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Bad upload id", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.Delete(sessionUser.ID, uint(id64)); err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}
	addFlash(w, r, h.cookieStore, flashSuccess, "File deleted.")
	http.Redirect(w, r, "/uploads", http.StatusSeeOther)
}
