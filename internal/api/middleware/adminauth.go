package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards the HTML admin panel with HTTP basic auth. The password
// is checked against a bcrypt hash so the secret never lives in config in
// clear text.
type AdminAuth struct {
	user         string
	passwordHash string
}

func NewAdminAuth(user, passwordHash string) *AdminAuth {
	return &AdminAuth{user: user, passwordHash: passwordHash}
}

func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != a.user ||
			bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="trichoscan admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
