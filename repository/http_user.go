package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
)

// httpUserRepo, UserRepository'nin HTTP implementasyonu.
type httpUserRepo struct {
	client *api.Client
}

// NewHTTPUserRepo, constructor.
func NewHTTPUserRepo(client *api.Client) UserRepository {
	return &httpUserRepo{client: client}
}

// rolePrefix, rolün endpoint ailesini döner.
// Role kapalı bir tip olduğu için default dalı pratikte çalışmaz.
func rolePrefix(role models.Role) string {
	if role == models.RoleStudent {
		return "/api/students"
	}
	return "/api/tutors"
}

// roleKey, yanıt envelope'undaki kaynak adını döner ("tutor" | "student").
func roleKey(role models.Role) string {
	return string(role)
}

func (r *httpUserRepo) SignIn(ctx context.Context, role models.Role, req *models.LoginRequest) (*models.User, *models.Session, error) {
	// DoPublic: önceki oturumun token'ı signin isteğine ASLA eklenmez.
	env, err := r.client.DoPublic(ctx, http.MethodPost, rolePrefix(role)+"/signin", req)
	if err != nil {
		return nil, nil, err
	}
	return r.decodeAuthResponse(env, role)
}

func (r *httpUserRepo) SignUp(ctx context.Context, role models.Role, req *models.SignupRequest) (*models.User, *models.Session, error) {
	env, err := r.client.DoPublic(ctx, http.MethodPost, rolePrefix(role)+"/signup", req)
	if err != nil {
		return nil, nil, err
	}
	return r.decodeAuthResponse(env, role)
}

func (r *httpUserRepo) GetByID(ctx context.Context, role models.Role, id string) (*models.User, error) {
	env, err := r.client.Do(ctx, http.MethodGet, rolePrefix(role)+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := env.Decode(roleKey(role), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// decodeAuthResponse, signin/signup yanıtından kullanıcı + oturum çıkarır.
// Beklenen envelope: {"tutor": {...}, "access_token": "...", "refresh_token": "...",
// "expires_at": 1760000000}
func (r *httpUserRepo) decodeAuthResponse(env api.Envelope, role models.Role) (*models.User, *models.Session, error) {
	var user models.User
	if err := env.Decode(roleKey(role), &user); err != nil {
		return nil, nil, err
	}

	session := &models.Session{}
	if err := env.Decode("access_token", &session.AccessToken); err != nil {
		return nil, nil, err
	}
	if env.Has("refresh_token") {
		if err := env.Decode("refresh_token", &session.RefreshToken); err != nil {
			return nil, nil, err
		}
	}

	if env.Has("expires_at") {
		if err := env.Decode("expires_at", &session.ExpiresAt); err != nil {
			return nil, nil, err
		}
	} else {
		// Sunucu expiry göndermediyse access token'ın kendi "exp" claim'inden
		// türet. İmza DOĞRULANMAZ — secret client'ta yoktur ve gerekmez;
		// expiry zaten sunucu tarafında ayrıca kontrol edilir, buradaki değer
		// sadece lokal "oturum hâlâ taze mi" kararı içindir.
		exp, err := tokenExpiry(session.AccessToken)
		if err != nil {
			return nil, nil, fmt.Errorf("response carries no expiry and token is opaque: %w", err)
		}
		session.ExpiresAt = exp
	}

	return &user, session, nil
}

// tokenExpiry, JWT access token'dan "exp" claim'ini (epoch saniye) çıkarır.
func tokenExpiry(token string) (int64, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, fmt.Errorf("access token has no exp claim")
	}
	// Değer aynen taşınır — geçerlilik kararı session store'undur.
	return exp.Time.Unix(), nil
}
