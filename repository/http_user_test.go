package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
)

func newUserRepo(t *testing.T, handler http.HandlerFunc) UserRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPUserRepo(api.New(server.URL, 5*time.Second, staticToken{}))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "t1",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-side-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestSignInDecodesEnvelope(t *testing.T) {
	repo := newUserRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tutors/signin" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("signin must not carry a bearer token, got %q", got)
		}
		w.Write([]byte(`{
			"tutor": {"id":"t1","email":"ada@example.com","first_name":"Ada","last_name":"Lovelace"},
			"access_token": "access-abc",
			"refresh_token": "refresh-xyz",
			"expires_at": 1760000000
		}`))
	})

	user, session, err := repo.SignIn(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if user.ID != "t1" || user.FirstName != "Ada" {
		t.Fatalf("user = %+v", user)
	}
	if session.AccessToken != "access-abc" || session.RefreshToken != "refresh-xyz" {
		t.Fatalf("session = %+v", session)
	}
	if session.ExpiresAt != 1760000000 {
		t.Fatalf("expiresAt = %d", session.ExpiresAt)
	}
}

func TestSignInDerivesExpiryFromTokenWhenAbsent(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)

	repo := newUserRepo(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"tutor":        map[string]string{"id": "t1", "email": "ada@example.com"},
			"access_token": token,
		}
		json.NewEncoder(w).Encode(resp)
	})

	_, session, err := repo.SignIn(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if session.ExpiresAt != exp.Unix() {
		t.Fatalf("expiresAt = %d, want %d (from exp claim)", session.ExpiresAt, exp.Unix())
	}
}

func TestSignInOpaqueTokenWithoutExpiryIsError(t *testing.T) {
	repo := newUserRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tutor":{"id":"t1"},"access_token":"not-a-jwt"}`))
	})

	_, _, err := repo.SignIn(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	})
	if err == nil {
		t.Fatal("expected error for opaque token without expires_at")
	}
}

func TestStudentEndpointsUseStudentFamily(t *testing.T) {
	repo := newUserRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/students/signup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"student": {"id":"s1","email":"grace@example.com"},
			"access_token": "access-abc",
			"expires_at": 1760000000
		}`))
	})

	user, _, err := repo.SignUp(context.Background(), models.RoleStudent, &models.SignupRequest{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.ID != "s1" {
		t.Fatalf("user = %+v", user)
	}
}

func TestGetByIDReadsRoleEnvelope(t *testing.T) {
	repo := newUserRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tutors/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"tutor":{"id":"t1","account_balance":99.5,"number_of_students":7}}`)
	})

	user, err := repo.GetByID(context.Background(), models.RoleTutor, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if user.AccountBalance != 99.5 || user.NumberOfStudents != 7 {
		t.Fatalf("user = %+v", user)
	}
}
