package rest

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
)

// Role: роль пользователя API.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

const authRealm = "Assignment Project"

// Credentials описывает статического пользователя Basic-аутентификации.
type Credentials struct {
	Username string
	Password string
	Role     Role
}

// Principal: аутентифицированный пользователь запроса.
type Principal struct {
	Username string
	Role     Role
}

type principalKey struct{}

// PrincipalFromContext возвращает пользователя, установленного BasicAuth.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// BasicAuth проверяет учётные данные и кладёт Principal в контекст запроса.
// Пароли сравниваются за постоянное время.
func BasicAuth(users []Credentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			for _, user := range users {
				if user.Username == "" {
					continue
				}
				userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(user.Username)) == 1
				passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(user.Password)) == 1
				if userMatch && passMatch {
					ctx := context.WithValue(r.Context(), principalKey{}, Principal{Username: user.Username, Role: user.Role})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			unauthorized(w)
		})
	}
}

// RequireRoles пропускает запрос только для перечисленных ролей.
func RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, codeAccessDenied, msgAccessDenied)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", authRealm))
	writeError(w, http.StatusUnauthorized, codeUnauthorized, msgUnauthorized)
}
