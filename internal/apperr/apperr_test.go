package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("missing username"), http.StatusBadRequest},
		{NotFound("no such user"), http.StatusNotFound},
		{Internal("db exploded", errors.New("io error")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.status {
			t.Errorf("HTTPStatus(%v) = %d, expected %d", c.err, got, c.status)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", Validation("bad input"))
	if !IsValidation(err) {
		t.Errorf("wrapped validation error lost its kind")
	}
	if HTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("wrapped validation error mapped to %d", HTTPStatus(err))
	}
}

func TestUserMessageHidesInternalDetail(t *testing.T) {
	err := Internal("query failed", errors.New("disk I/O error on /var/db"))
	msg := UserMessage(err)
	if msg == err.Error() {
		t.Errorf("internal detail leaked to the user: %q", msg)
	}

	if got := UserMessage(Validation("Username already exists.")); got != "Username already exists." {
		t.Errorf("validation message mangled: %q", got)
	}
}
