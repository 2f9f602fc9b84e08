package middlewares

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"
)

// UserID extracts the authenticated user id from the verified token claims.
// Only meaningful behind jwtauth.Verifier + Authenticator.
func UserID(r *http.Request) (int64, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, err
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bad subject claim")
	}
	return id, nil
}
