package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatspace/internal/apperr"
	"chatspace/internal/entity"
	"chatspace/internal/view"

	"github.com/gorilla/sessions"
)

type mockAuthService struct {
	registerErr error
	loginErr    error
	user        *entity.User
}

func (m *mockAuthService) Register(username, password string) (*entity.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &entity.User{ID: 1, Username: username}, nil
}

func (m *mockAuthService) Login(username, password string) (*entity.User, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.user, nil
}

func (m *mockAuthService) DeleteAccount(userID uint) error { return nil }

func testRenderer(t *testing.T) *view.PageRenderer {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "layouts"), 0755); err != nil {
		t.Fatal(err)
	}
	pages := map[string]string{
		"layouts/base.html": `{{define "base"}}{{template "content" .}}{{end}}`,
		"login.html":        `{{define "content"}}login page {{range .Success}}[{{.}}]{{end}}{{range .Danger}}[{{.}}]{{end}}{{end}}`,
		"register.html":     `{{define "content"}}register page{{end}}`,
	}
	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	renderer, err := view.NewPageRenderer(dir)
	if err != nil {
		t.Fatal(err)
	}
	return renderer
}

func testCookieStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key"))
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegisterRedirectsToLogin(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testCookieStore(), testRenderer(t))

	req := postForm("/register", url.Values{"username": {"alice"}, "password": {"longenough1"}})
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRegisterDuplicateRedirectsBack(t *testing.T) {
	svc := &mockAuthService{registerErr: apperr.Validation("Username already exists.")}
	h := NewAuthHandler(svc, testCookieStore(), testRenderer(t))

	req := postForm("/register", url.Values{"username": {"alice"}, "password": {"longenough1"}})
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/register" {
		t.Errorf("expected redirect back to /register, got %q", loc)
	}
}

func TestRegisterPageRenders(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testCookieStore(), testRenderer(t))

	rr := httptest.NewRecorder()
	h.Register(rr, httptest.NewRequest("GET", "/register", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "register page") {
		t.Errorf("register template was not rendered")
	}
}

func TestLoginSetsSessionAndRedirectsHome(t *testing.T) {
	svc := &mockAuthService{user: &entity.User{ID: 7, Username: "alice"}}
	h := NewAuthHandler(svc, testCookieStore(), testRenderer(t))

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"longenough1"}})
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	cookieSet := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth-session" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Errorf("auth-session cookie was not set")
	}
}

func TestLoginFlashesSuccess(t *testing.T) {
	svc := &mockAuthService{user: &entity.User{ID: 7, Username: "alice"}}
	h := NewAuthHandler(svc, testCookieStore(), testRenderer(t))

	rr := httptest.NewRecorder()
	h.Login(rr, postForm("/login", url.Values{"username": {"alice"}, "password": {"longenough1"}}))

	// The flash rides the session cookie to the next rendered page.
	next := httptest.NewRequest("GET", "/login", nil)
	for _, c := range rr.Result().Cookies() {
		next.AddCookie(c)
	}
	rr2 := httptest.NewRecorder()
	h.Login(rr2, next)
	if !strings.Contains(rr2.Body.String(), "[Logged in successfully!]") {
		t.Errorf("login success flash was not rendered, body: %q", rr2.Body.String())
	}
}

func TestLogoutClearsIdentityAndFlashes(t *testing.T) {
	svc := &mockAuthService{user: &entity.User{ID: 7, Username: "alice"}}
	store := testCookieStore()
	h := NewAuthHandler(svc, store, testRenderer(t))

	rrLogin := httptest.NewRecorder()
	h.Login(rrLogin, postForm("/login", url.Values{"username": {"alice"}, "password": {"longenough1"}}))

	logoutReq := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range rrLogin.Result().Cookies() {
		logoutReq.AddCookie(c)
	}
	rrLogout := httptest.NewRecorder()
	h.Logout(rrLogout, logoutReq)

	if rrLogout.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rrLogout.Code)
	}
	if loc := rrLogout.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}

	next := httptest.NewRequest("GET", "/login", nil)
	for _, c := range rrLogout.Result().Cookies() {
		next.AddCookie(c)
	}
	session, _ := store.Get(next, "auth-session")
	if _, ok := session.Values["user_id"]; ok {
		t.Errorf("user_id survived logout")
	}
	if _, ok := session.Values["username"]; ok {
		t.Errorf("username survived logout")
	}

	rrPage := httptest.NewRecorder()
	h.Login(rrPage, next)
	if !strings.Contains(rrPage.Body.String(), "[You have been logged out.]") {
		t.Errorf("logout flash was not rendered, body: %q", rrPage.Body.String())
	}
}

func TestLoginBadCredentialsRedirectsBack(t *testing.T) {
	svc := &mockAuthService{loginErr: apperr.Validation("Invalid username or password.")}
	h := NewAuthHandler(svc, testCookieStore(), testRenderer(t))

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect back to /login, got %q", loc)
	}
}
