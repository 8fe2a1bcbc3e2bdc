package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "staff",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminProtected(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AdminClaimsFromContext(r.Context()); !ok {
			http.Error(w, "claims missing", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return AdminJWT(secret)(next)
}

func TestAdminJWTAcceptsValidToken(t *testing.T) {
	h := adminProtected("s3cret")

	req := httptest.NewRequest(http.MethodPut, "/appointments/x/approve", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminJWTRejects(t *testing.T) {
	wrongSecret := signToken(t, "other")
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"garbage token", "Bearer not.a.jwt"},
	}
	h := adminProtected("s3cret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/appointments/x/approve", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAdminJWTDisabledWithoutSecret(t *testing.T) {
	h := adminProtected("")
	req := httptest.NewRequest(http.MethodPut, "/appointments/x/approve", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
