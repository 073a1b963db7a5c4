package repository

import (
	"context"

	"github.com/sideeq12/tutorhub/models"
)

// UserRepository, kimlik API'si interface'i.
//
// Tutor ve student iki ayrı kimlik alanıdır — her operasyon rol alır ve
// ilgili endpoint ailesine gider (/api/tutors/* veya /api/students/*).
type UserRepository interface {
	// SignIn, giriş yapar; başarıda kullanıcı profili + token çifti döner.
	SignIn(ctx context.Context, role models.Role, req *models.LoginRequest) (*models.User, *models.Session, error)

	// SignUp, kayıt olur; sözleşme SignIn ile aynıdır.
	// Alan validasyonu CALLER'ın sorumluluğundadır (bkz. models.SignupRequest.Validate).
	SignUp(ctx context.Context, role models.Role, req *models.SignupRequest) (*models.User, *models.Session, error)

	// GetByID, kullanıcının güncel profilini çeker (RefreshUserDetails için).
	GetByID(ctx context.Context, role models.Role, id string) (*models.User, error)
}
