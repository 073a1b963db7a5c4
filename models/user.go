// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Dışarıdaki marketplace API'sinden gelen/giden verilerin Go karşılığıdır.
// `json:"first_name"` gibi tag'ler struct field'larının JSON'a nasıl
// serialize/deserialize edileceğini belirler.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Role, kullanıcının sistemdeki rolünü temsil eder.
//
// Tutor ve student iki AYRI kimlik alanıdır — API'de ayrı endpoint'leri vardır
// (/api/tutors/* ve /api/students/*) ve asla birleştirilmezler.
// Serbest string yerine typed constant kullanıyoruz: typo'lar compile-time'da
// değilse bile ParseRole'da yakalanır, kod boyunca yayılmaz.
type Role string

// İzin verilen Role değerleri.
const (
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
)

// Valid, rolün tanımlı iki değerden biri olup olmadığını kontrol eder.
func (r Role) Valid() bool {
	return r == RoleTutor || r == RoleStudent
}

// ParseRole, serbest string'i kapalı Role tipine çevirir.
// Tanımsız bir değer error döner — "tuttor" gibi typo'lar burada durur.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q (must be %q or %q)", s, RoleTutor, RoleStudent)
	}
	return r, nil
}

// User, oturum açmış kullanıcının profil snapshot'ıdır.
//
// Tek canlı instance vardır (auth service'in içinde) ve sadece
// RefreshUserDetails ile TOPTAN değiştirilir — herhangi bir consumer tek tek
// field mutate edemez. Bu, görünümler arası "tearing"i engeller.
type User struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	DisplayName      string  `json:"display_name"`
	Expertise        string  `json:"expertise"`
	AccountBalance   float64 `json:"account_balance"`
	NumberOfStudents int     `json:"number_of_students"`
	NumberOfCourses  int     `json:"number_of_courses"`
}

// FullName, görüntüleme için ad-soyad birleştirir.
// DisplayName doluysa o tercih edilir.
func (u *User) FullName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SignupRequest, kayıt olurken API'ye gönderilen veri.
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Expertise string `json:"expertise,omitempty"` // Sadece tutor kayıtlarında anlamlı
}

// Validate, SignupRequest'in geçerli olup olmadığını kontrol eder.
//
// Bu kontrol CALLER'ın sorumluluğundadır: auth service signup sırasında
// yeniden validate ETMEZ. CLI, isteği göndermeden önce bunu çağırır.
func (r *SignupRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	var missing []string
	if r.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if r.LastName == "" {
		missing = append(missing, "last_name")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		missing = append(missing, "email")
	}
	if utf8.RuneCountInString(r.Password) < 8 {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid or missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoginRequest, giriş yaparken API'ye gönderilen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
