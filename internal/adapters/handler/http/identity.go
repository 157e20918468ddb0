package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

type contextKey string

const UserKey contextKey = "user"

// Identity trusts the caller identity carried by an HS256 bearer token. The transport in front of the
// API has already authenticated the user and signs sub, first_name, last_name and username claims.
func Identity(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}); err != nil {
				writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := userFromClaims(claims)
			if err != nil {
				writeErrorMessage(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromClaims(claims jwt.MapClaims) (domain.User, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.User{}, errors.New("missing subject")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid subject %q", sub)
	}

	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	return domain.User{
		ID:        id,
		FirstName: str("first_name"),
		LastName:  str("last_name"),
		Username:  str("username"),
	}, nil
}

func currentUser(r *http.Request) (domain.User, bool) {
	user, ok := r.Context().Value(UserKey).(domain.User)
	return user, ok
}
