// Package middleware, görünümlere erişimi kapılayan route guard'ı barındırır.
//
// Guard STATELESS'tır: her navigasyonda o anki auth snapshot'ı ile yeniden
// değerlendirilir, kendisi hiçbir şey hatırlamaz. Oturum ortadan kalkarsa
// (ör. başka yerden logout) bir sonraki navigasyon bunu anında yansıtır.
package middleware

import (
	"github.com/sideeq12/tutorhub/models"
)

// Route, bir görünümün erişim gereksinimlerini tanımlar.
// RequiredRole boşsa oturum açmış HERHANGİ bir rol yeterlidir.
type Route struct {
	Path         string
	RequiresAuth bool
	RequiredRole models.Role
}

// Action, guard kararının türü.
type Action int

const (
	// ActionAllow — navigasyona izin ver.
	ActionAllow Action = iota
	// ActionWait — oturum hâlâ yükleniyor; redirect ETME, bekle.
	ActionWait
	// ActionRedirect — Target'a yönlendir. From, login sonrası geri
	// dönüş için orijinal hedefi taşır.
	ActionRedirect
)

// Decision, tek bir navigasyon için guard kararı.
type Decision struct {
	Action Action
	Target string // Sadece ActionRedirect'te dolu
	From   string // Login redirect'inde taşınan orijinal hedef
}

// RouteGuard, rol bazlı erişim kapısı.
// Yönlendirme hedefleri yapılandırılabilir; karar mantığı saf fonksiyondur.
type RouteGuard struct {
	loginPath   string
	tutorHome   string // Rol uyuşmazlığında tutor'ın indiği görünüm
	studentHome string // Rol uyuşmazlığında öğrencinin indiği görünüm
}

// NewRouteGuard, constructor.
func NewRouteGuard(loginPath, tutorHome, studentHome string) *RouteGuard {
	return &RouteGuard{
		loginPath:   loginPath,
		tutorHome:   tutorHome,
		studentHome: studentHome,
	}
}

// Evaluate, verilen auth durumu için navigasyon kararı üretir.
//
// Kurallar (sıralı):
//  1. Loading → bekle; henüz kimin geldiğini bilmiyoruz, redirect yanlış olur.
//  2. Anonymous + auth gerektiren hedef → login'e yönlendir, orijinal
//     hedefi From'da taşı (login sonrası geri dönüş için).
//  3. Authenticated ama rol uyuşmuyor → role uygun ana görünüme yönlendir.
//     Hedef ASLA render edilmez.
//  4. Aksi halde izin ver.
func (g *RouteGuard) Evaluate(snap models.AuthSnapshot, route Route) Decision {
	if snap.Phase == models.PhaseLoading || snap.Phase == models.PhaseUninitialized {
		return Decision{Action: ActionWait}
	}

	if !snap.IsAuthenticated() {
		if route.RequiresAuth {
			return Decision{Action: ActionRedirect, Target: g.loginPath, From: route.Path}
		}
		return Decision{Action: ActionAllow}
	}

	if route.RequiredRole != "" && route.RequiredRole != snap.Role {
		return Decision{Action: ActionRedirect, Target: g.homeFor(snap.Role)}
	}

	return Decision{Action: ActionAllow}
}

// homeFor, rolün varsayılan iniş görünümünü döner.
func (g *RouteGuard) homeFor(role models.Role) string {
	if role == models.RoleTutor {
		return g.tutorHome
	}
	return g.studentHome
}
