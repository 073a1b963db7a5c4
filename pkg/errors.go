// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir (string taşıyan struct'lar).
// errors.New() ile sabit error değişkenleri tanımlarız.
// Böylece error karşılaştırması string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrValidation) { ... }
//
// Bu, typo'ya açık string karşılaştırmasından çok daha güvenlidir.
package pkg

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-level error'lar.
// Service katmanı bunları döner; CLI bunları kullanıcıya mesaj olarak gösterir.
//
//   - ErrValidation: client-side, network'e hiç çıkmadan yakalanan alan hataları
//   - ErrAuth:       signin/signup sunucu tarafından reddedildi
//   - ErrRefresh:    oturum yokken veya sunucu hatasıyla profil yenileme başarısız
//   - ErrUpload:     dosya yükleme transport veya sunucu hatası
//   - ErrPublish:    kurs yayınlama payload'ı sunucu tarafından reddedildi
//   - ErrNetwork:    istek sunucuya ulaşamadı — yanıt yok
//   - ErrTimeout:    upload inactivity süresi aşıldı
//   - ErrConflict:   aynı entity üzerinde eşzamanlı mutasyon denemesi
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrRefresh    = errors.New("refresh failed")
	ErrUpload     = errors.New("upload failed")
	ErrPublish    = errors.New("publish failed")
	ErrNetwork    = errors.New("network error")
	ErrTimeout    = errors.New("timeout")
	ErrConflict   = errors.New("concurrent modification")
)

// ValidationError, hangi alanların eksik/geçersiz olduğunu taşıyan error tipi.
//
// Neden ayrı tip?
// CreateCourse gibi operasyonlar tek seferde TÜM eksik alanları raporlamalı —
// kullanıcı her denemede yeni bir alan hatasıyla karşılaşmamalı.
// Unwrap sentinel'i döndüğü için errors.Is(err, ErrValidation) yine çalışır.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Fields, ", "))
}

// Unwrap, errors.Is eşleşmesi için sentinel'i döner.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError, eksik/geçersiz alan listesinden ValidationError oluşturur.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}
