// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// CLI/görünüm katmanı ile repository (lokal SQLite + uzak API) arasında
// oturan katmandır. Tüm iş kuralları burada yaşar:
//   - Oturum state machine'i
//   - Alan validasyonu ve network öncesi kontroller
//   - Position hesabı, publish payload kurulumu
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL veya HTTP çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg"
	"github.com/sideeq12/tutorhub/repository"
)

// AuthService interface'i — oturum state machine'inin dışa açık API'si.
//
// State machine: Uninitialized → Loading → {Authenticated(role), Anonymous}
//
// Uygulamanın geri kalanının "kim oturum açmış?" sorusunun TEK kaynağı budur.
// Process başına bir instance oluşturulur ve ihtiyaç duyan her bileşene
// dependency olarak geçilir — global mutable state yoktur.
type AuthService interface {
	// Restore, process başlangıcında kalıcı oturumu diskten geri yükler.
	// Geçerli oturum + okunabilir profil varsa Authenticated(role),
	// yoksa store temizlenir ve Anonymous olunur.
	Restore(ctx context.Context) models.AuthSnapshot

	// Login, verilen rolün signin endpoint'ine gider.
	// Başarıda oturum + profil atomik olarak kalıcılaştırılır ve state
	// Authenticated(role) olur. Başarısızlıkta state DEĞİŞMEZ; sunucu
	// mesajı pkg.ErrAuth ile sarılı döner.
	Login(ctx context.Context, role models.Role, req *models.LoginRequest) (*models.User, error)

	// Signup, sözleşmesi Login ile aynıdır ama kayıt endpoint'ine gider.
	// Alan validasyonu CALLER'ın işidir — burada yeniden validate edilmez.
	Signup(ctx context.Context, role models.Role, req *models.SignupRequest) (*models.User, error)

	// Logout, store'u temizler ve senkron olarak Anonymous'a geçer.
	// ASLA network çağrısı yapmaz.
	Logout(ctx context.Context) error

	// RefreshUserDetails, profili API'den yeniden çekip snapshot'ı hem
	// diskte hem bellekte TOPTAN değiştirir (merge değil).
	// Oturum yoksa pkg.ErrRefresh döner; başarısızlıkta mevcut state korunur.
	RefreshUserDetails(ctx context.Context) (*models.User, error)

	// Snapshot, o anki durum kopyasını döner. Route guard her
	// navigasyonda bunu yeniden okur.
	Snapshot() models.AuthSnapshot
}

// authService, AuthService implementasyonu.
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository

	// mu sadece aşağıdaki üç field'ı korur. Network çağrıları mutex
	// dışında yapılır — eşzamanlan iki Login çağrısında geç biten kazanır
	// (last write wins), hiçbiri bloklanmaz.
	mu    sync.Mutex
	phase models.AuthPhase
	role  models.Role
	user  *models.User
}

// NewAuthService, constructor.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		phase:       models.PhaseUninitialized,
	}
}

func (s *authService) Restore(ctx context.Context) models.AuthSnapshot {
	s.setPhase(models.PhaseLoading)

	user, role, err := s.sessionRepo.ReadUser(ctx)
	if err == nil && user != nil && s.sessionRepo.IsValid(ctx) {
		s.swap(models.PhaseAuthenticated, role, user)
		log.Printf("[auth] session restored for %s (%s)", user.ID, role)
		return s.Snapshot()
	}

	// Süresi dolmuş veya bozuk oturum — artıkları temizle.
	if err := s.sessionRepo.Clear(ctx); err != nil {
		log.Printf("[auth] failed to clear stale session: %v", err)
	}
	s.swap(models.PhaseAnonymous, "", nil)
	return s.Snapshot()
}

func (s *authService) Login(ctx context.Context, role models.Role, req *models.LoginRequest) (*models.User, error) {
	user, session, err := s.userRepo.SignIn(ctx, role, req)
	if err != nil {
		return nil, wrapAuthErr(err)
	}
	if err := s.establish(ctx, session, user, role); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Signup(ctx context.Context, role models.Role, req *models.SignupRequest) (*models.User, error) {
	user, session, err := s.userRepo.SignUp(ctx, role, req)
	if err != nil {
		return nil, wrapAuthErr(err)
	}
	if err := s.establish(ctx, session, user, role); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.sessionRepo.Clear(ctx); err != nil {
		return err
	}
	s.swap(models.PhaseAnonymous, "", nil)
	log.Println("[auth] logged out")
	return nil
}

func (s *authService) RefreshUserDetails(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	current := s.user
	role := s.role
	s.mu.Unlock()

	session, err := s.sessionRepo.ReadSession(ctx)
	if err != nil || session == nil || current == nil {
		return nil, fmt.Errorf("%w: no active session", pkg.ErrRefresh)
	}

	fresh, err := s.userRepo.GetByID(ctx, role, current.ID)
	if err != nil {
		// Mevcut snapshot'a DOKUNMA — başarısız refresh state bozmaz.
		return nil, fmt.Errorf("%w: %v", pkg.ErrRefresh, err)
	}

	// Önce disk, sonra bellek — ikisi de TOPTAN replace.
	if err := s.sessionRepo.Store(ctx, session, fresh, role); err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrRefresh, err)
	}
	s.swap(models.PhaseAuthenticated, role, fresh)
	return fresh, nil
}

func (s *authService) Snapshot() models.AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.AuthSnapshot{Phase: s.phase, Role: s.role, User: s.user}
}

// establish, başarılı signin/signup sonrası oturumu kalıcılaştırıp
// state'i Authenticated(role) yapar. Kalıcılaştırma başarısızsa state değişmez.
func (s *authService) establish(ctx context.Context, session *models.Session, user *models.User, role models.Role) error {
	if err := s.sessionRepo.Store(ctx, session, user, role); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.swap(models.PhaseAuthenticated, role, user)
	log.Printf("[auth] authenticated as %s (%s)", user.ID, role)
	return nil
}

func (s *authService) setPhase(phase models.AuthPhase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// swap, üç field'ı tek kilit altında birlikte değiştirir —
// snapshot okuyan hiçbir consumer yarım geçiş görmez.
func (s *authService) swap(phase models.AuthPhase, role models.Role, user *models.User) {
	s.mu.Lock()
	s.phase = phase
	s.role = role
	s.user = user
	s.mu.Unlock()
}

// wrapAuthErr, sunucunun ret mesajını pkg.ErrAuth ile sarar.
// Network seviyesi hatalar (yanıt yok) zaten pkg.ErrNetwork taşır, aynen geçer.
func wrapAuthErr(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", pkg.ErrAuth, apiErr.Message)
	}
	return err
}
