package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// echoUserID writes the context user id so tests can see what the
// middleware injected.
func echoUserID(t *testing.T, want int64, wantOK bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if ok != wantOK || id != want {
			t.Errorf("UserIDFromContext() = (%d, %v), want (%d, %v)", id, ok, want, wantOK)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithToken(t *testing.T, token string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	return r
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := newTestTokenService(t)
	token, err := tokens.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rec := httptest.NewRecorder()
	RequireAuth(tokens)(echoUserID(t, 42, true)).ServeHTTP(rec, requestWithToken(t, token))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	tokens := newTestTokenService(t)

	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler should not run without a token")
	})
	RequireAuth(tokens)(next).ServeHTTP(rec, requestWithToken(t, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_BadToken(t *testing.T) {
	tokens := newTestTokenService(t)

	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler should not run with a bad token")
	})
	RequireAuth(tokens)(next).ServeHTTP(rec, requestWithToken(t, "garbage"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := newTestTokenService(t)
	token, err := tokens.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// With a token: identity flows through.
	rec := httptest.NewRecorder()
	OptionalAuth(tokens)(echoUserID(t, 7, true)).ServeHTTP(rec, requestWithToken(t, token))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	// Without one: anonymous, but the request still goes through.
	rec = httptest.NewRecorder()
	OptionalAuth(tokens)(echoUserID(t, 0, false)).ServeHTTP(rec, requestWithToken(t, ""))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
