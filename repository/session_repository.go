// Package repository, veri erişim katmanını barındırır.
//
// İki tür repository vardır:
//   - sqlite_*: lokal kalıcı state (sadece session store)
//   - http_*:   dışarıdaki marketplace API'si (kurs, quiz, kullanıcı)
//
// Service katmanı sadece interface'lere bağımlıdır — testlerde fake
// implementasyonlar geçilebilir.
package repository

import (
	"context"

	"github.com/sideeq12/tutorhub/models"
)

// SessionRepository, kalıcı oturum state'i (session store) interface'i.
//
// Sözleşme:
//   - Store, tüm alanları tek bir transaction'da yazar — yarım oturum olmaz.
//   - ReadUser, kayıt yoksa VEYA bozuksa (nil, "", nil) döner. Bozuk veri
//     "çıkış yapılmış" demektir, asla error olarak yukarı taşınmaz.
//   - IsValid, token + expiry mevcutsa ve expiry > şimdi ise true döner.
//   - Clear idempotent'tir.
type SessionRepository interface {
	Store(ctx context.Context, session *models.Session, user *models.User, role models.Role) error
	ReadUser(ctx context.Context) (*models.User, models.Role, error)
	ReadSession(ctx context.Context) (*models.Session, error)
	IsValid(ctx context.Context) bool
	Clear(ctx context.Context) error

	// AccessToken, api.TokenSource implementasyonu — o anki (şifresi çözülmüş)
	// access token'ı döner, oturum yoksa boş string.
	AccessToken() string
}
