package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg"
)

// fakeUserRepo, UserRepository'nin programlanabilir test implementasyonu.
type fakeUserRepo struct {
	user    *models.User
	session *models.Session
	err     error

	signInCalls int
	getByIDUser *models.User
	getByIDErr  error
}

func (f *fakeUserRepo) SignIn(ctx context.Context, role models.Role, req *models.LoginRequest) (*models.User, *models.Session, error) {
	f.signInCalls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.user, f.session, nil
}

func (f *fakeUserRepo) SignUp(ctx context.Context, role models.Role, req *models.SignupRequest) (*models.User, *models.Session, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.user, f.session, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, role models.Role, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDUser, nil
}

// fakeSessionRepo, bellek içi session store. Çağrı sayaçları tutar —
// "logout network'e gitmez" gibi sözleşmeler sayaçlarla doğrulanır.
type fakeSessionRepo struct {
	session *models.Session
	user    *models.User
	role    models.Role

	storeErr   error
	clearCalls int
	storeCalls int
}

func (f *fakeSessionRepo) Store(ctx context.Context, session *models.Session, user *models.User, role models.Role) error {
	f.storeCalls++
	if f.storeErr != nil {
		return f.storeErr
	}
	f.session = session
	f.user = user
	f.role = role
	return nil
}

func (f *fakeSessionRepo) ReadUser(ctx context.Context) (*models.User, models.Role, error) {
	if f.user == nil {
		return nil, "", nil
	}
	return f.user, f.role, nil
}

func (f *fakeSessionRepo) ReadSession(ctx context.Context) (*models.Session, error) {
	return f.session, nil
}

func (f *fakeSessionRepo) IsValid(ctx context.Context) bool {
	return f.session != nil && f.session.Valid()
}

func (f *fakeSessionRepo) Clear(ctx context.Context) error {
	f.clearCalls++
	f.session = nil
	f.user = nil
	f.role = ""
	return nil
}

func (f *fakeSessionRepo) AccessToken() string {
	if f.session == nil {
		return ""
	}
	return f.session.AccessToken
}

func validSession() *models.Session {
	return &models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
}

func tutorUser() *models.User {
	return &models.User{ID: "t1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}
}

func TestLoginSuccessTransitionsToAuthenticated(t *testing.T) {
	users := &fakeUserRepo{user: tutorUser(), session: validSession()}
	store := &fakeSessionRepo{}
	auth := NewAuthService(users, store)

	user, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != "t1" {
		t.Fatalf("user = %+v", user)
	}

	snap := auth.Snapshot()
	if snap.Phase != models.PhaseAuthenticated || snap.Role != models.RoleTutor {
		t.Fatalf("snapshot = %+v, want authenticated tutor", snap)
	}
	if store.storeCalls != 1 {
		t.Fatalf("storeCalls = %d, want 1 (session must be persisted)", store.storeCalls)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	users := &fakeUserRepo{err: &api.APIError{Status: 401, Message: "invalid credentials"}}
	store := &fakeSessionRepo{}
	auth := NewAuthService(users, store)
	auth.Restore(context.Background()) // → Anonymous

	_, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "wrong",
	})
	if !errors.Is(err, pkg.ErrAuth) {
		t.Fatalf("error = %v, want wrapped ErrAuth", err)
	}
	// Sunucu mesajı kullanıcıya gösterilebilir olmalı.
	if got := err.Error(); !strings.Contains(got, "invalid credentials") {
		t.Fatalf("error message %q does not carry server message", got)
	}

	snap := auth.Snapshot()
	if snap.Phase != models.PhaseAnonymous {
		t.Fatalf("phase = %v, want anonymous after failed login", snap.Phase)
	}
	if store.storeCalls != 0 {
		t.Fatalf("storeCalls = %d, want 0", store.storeCalls)
	}
}

func TestLoginPersistFailureDoesNotAuthenticate(t *testing.T) {
	users := &fakeUserRepo{user: tutorUser(), session: validSession()}
	store := &fakeSessionRepo{storeErr: errors.New("disk full")}
	auth := NewAuthService(users, store)
	auth.Restore(context.Background())

	if _, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	}); err == nil {
		t.Fatal("expected error when persistence fails")
	}

	if snap := auth.Snapshot(); snap.Phase == models.PhaseAuthenticated {
		t.Fatal("state became authenticated despite persist failure")
	}
}

func TestRestoreValidSession(t *testing.T) {
	store := &fakeSessionRepo{session: validSession(), user: tutorUser(), role: models.RoleTutor}
	auth := NewAuthService(&fakeUserRepo{}, store)

	snap := auth.Restore(context.Background())
	if snap.Phase != models.PhaseAuthenticated || snap.Role != models.RoleTutor {
		t.Fatalf("snapshot = %+v, want restored tutor session", snap)
	}
	if snap.User == nil || snap.User.ID != "t1" {
		t.Fatalf("user = %+v", snap.User)
	}
}

func TestRestoreExpiredSessionClearsStore(t *testing.T) {
	expired := &models.Session{AccessToken: "access", ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	store := &fakeSessionRepo{session: expired, user: tutorUser(), role: models.RoleTutor}
	auth := NewAuthService(&fakeUserRepo{}, store)

	snap := auth.Restore(context.Background())
	if snap.Phase != models.PhaseAnonymous {
		t.Fatalf("phase = %v, want anonymous for expired session", snap.Phase)
	}
	if store.clearCalls == 0 {
		t.Fatal("stale session was not cleared")
	}
}

func TestLogoutNeverTouchesNetwork(t *testing.T) {
	users := &fakeUserRepo{user: tutorUser(), session: validSession()}
	store := &fakeSessionRepo{}
	auth := NewAuthService(users, store)

	if _, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	networkCallsBefore := users.signInCalls

	if err := auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if users.signInCalls != networkCallsBefore {
		t.Fatal("logout made a network call")
	}
	if store.clearCalls != 1 {
		t.Fatalf("clearCalls = %d, want 1", store.clearCalls)
	}
	if snap := auth.Snapshot(); snap.Phase != models.PhaseAnonymous || snap.User != nil {
		t.Fatalf("snapshot = %+v, want anonymous", snap)
	}
}

func TestRefreshUserDetailsReplacesSnapshot(t *testing.T) {
	fresh := &models.User{ID: "t1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		AccountBalance: 420.5, NumberOfStudents: 12, NumberOfCourses: 3}
	users := &fakeUserRepo{user: tutorUser(), session: validSession(), getByIDUser: fresh}
	store := &fakeSessionRepo{}
	auth := NewAuthService(users, store)

	if _, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	got, err := auth.RefreshUserDetails(context.Background())
	if err != nil {
		t.Fatalf("RefreshUserDetails failed: %v", err)
	}
	if got.AccountBalance != 420.5 || got.NumberOfStudents != 12 {
		t.Fatalf("fresh profile not returned: %+v", got)
	}

	// Hem bellek hem disk toptan değişmiş olmalı.
	if snap := auth.Snapshot(); snap.User.AccountBalance != 420.5 {
		t.Fatalf("snapshot not replaced: %+v", snap.User)
	}
	if store.user == nil || store.user.NumberOfCourses != 3 {
		t.Fatalf("persisted profile not replaced: %+v", store.user)
	}
}

func TestRefreshWithoutSessionReturnsErrRefresh(t *testing.T) {
	auth := NewAuthService(&fakeUserRepo{}, &fakeSessionRepo{})
	auth.Restore(context.Background())

	_, err := auth.RefreshUserDetails(context.Background())
	if !errors.Is(err, pkg.ErrRefresh) {
		t.Fatalf("error = %v, want ErrRefresh", err)
	}
}

func TestRefreshFailureKeepsCurrentProfile(t *testing.T) {
	users := &fakeUserRepo{user: tutorUser(), session: validSession(), getByIDErr: errors.New("boom")}
	store := &fakeSessionRepo{}
	auth := NewAuthService(users, store)

	if _, err := auth.Login(context.Background(), models.RoleTutor, &models.LoginRequest{
		Email: "ada@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err := auth.RefreshUserDetails(context.Background())
	if !errors.Is(err, pkg.ErrRefresh) {
		t.Fatalf("error = %v, want ErrRefresh", err)
	}
	if snap := auth.Snapshot(); snap.User == nil || snap.User.ID != "t1" {
		t.Fatalf("existing profile lost on failed refresh: %+v", snap.User)
	}
}
