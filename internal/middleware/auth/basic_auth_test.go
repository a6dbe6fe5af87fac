package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuth(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := BasicAuth(log, "admin", "s3cret")(ok())

	cases := []struct {
		name       string
		user, pass string
		setAuth    bool
		want       int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "wrong password", user: "admin", pass: "nope", setAuth: true, want: http.StatusUnauthorized},
		{name: "wrong user", user: "root", pass: "s3cret", setAuth: true, want: http.StatusUnauthorized},
		{name: "valid", user: "admin", pass: "s3cret", setAuth: true, want: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tc.setAuth {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusUnauthorized {
				assert.Contains(t, rr.Header().Get("WWW-Authenticate"), `realm="Confeccao"`)
			}
		})
	}
}

func TestBasicAuth_Disabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := BasicAuth(log, "", "")(ok())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
