package handler

import (
	"io"
	"net/http"

	"chatspace/internal/apperr"

	"github.com/gorilla/sessions"
)

const (
	flashSuccess = "_flash_success"
	flashDanger  = "_flash_danger"
)

func addFlash(w http.ResponseWriter, r *http.Request, store *sessions.CookieStore, key, msg string) {
	session, _ := store.Get(r, "auth-session")
	session.AddFlash(msg, key)
	sessions.Save(r, w)
}

// takeFlashes drains both flash queues and persists the cleared session.
func takeFlashes(w http.ResponseWriter, r *http.Request, store *sessions.CookieStore) (success, danger []string) {
	session, _ := store.Get(r, "auth-session")
	for _, f := range session.Flashes(flashSuccess) {
		if s, ok := f.(string); ok {
			success = append(success, s)
		}
	}
	for _, f := range session.Flashes(flashDanger) {
		if s, ok := f.(string); ok {
			danger = append(danger, s)
		}
	}
	sessions.Save(r, w)
	return success, danger
}

// failForm sends validation problems back to the originating form as a flash
// message; anything else surfaces as a plain error response.
func failForm(w http.ResponseWriter, r *http.Request, store *sessions.CookieStore, err error, backTo string) {
	if apperr.IsValidation(err) {
		addFlash(w, r, store, flashDanger, apperr.UserMessage(err))
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}
	http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
}

// readUpload pulls the named file part out of an already-parsed multipart
// form. A missing part is not an error; it returns ("", nil, nil).
func readUpload(r *http.Request, field string, limit int64) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, apperr.Validation("Could not read the uploaded file.")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", nil, apperr.Internal("reading upload", err)
	}
	if int64(len(data)) > limit {
		return "", nil, apperr.Validationf("file exceeds the %d byte limit", limit)
	}
	return header.Filename, data, nil
}
