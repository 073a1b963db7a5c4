package models

// AuthPhase, oturum state machine'inin fazlarını temsil eder.
//
// Geçişler:
//
//	Uninitialized → Loading → Authenticated(role)
//	                        → Anonymous
//
// Loading geçici bir fazdır: process başlarken kalıcı oturum diskten
// okunurken görülür. Route guard bu fazda redirect ETMEZ, bekler.
type AuthPhase int

const (
	PhaseUninitialized AuthPhase = iota
	PhaseLoading
	PhaseAuthenticated
	PhaseAnonymous
)

// String, log mesajları için okunabilir faz adı döner.
func (p AuthPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// AuthSnapshot, auth service'in dışarıya verdiği değer tipindeki durum kopyası.
//
// Neden kopya?
// Consumer'lar (route guard, CLI) canlı state'e pointer ile dokunursa
// service'in mutex'i anlamını yitirir. Snapshot değer olarak döner;
// User pointer'ı da sadece toptan replace edildiği için paylaşım güvenlidir.
type AuthSnapshot struct {
	Phase AuthPhase
	Role  Role
	User  *User
}

// IsAuthenticated, kısayol: faz Authenticated mı?
func (s AuthSnapshot) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}
