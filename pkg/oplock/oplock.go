// Package oplock — entity bazlı in-flight mutasyon kilidi.
//
// Tasarım:
// - Her entity ID'si için bir "in-flight" flag'i tutulur.
// - Bir mutasyon (create/delete/publish) başlamadan önce Acquire çağrılır.
// - Aynı entity üzerinde devam eden bir mutasyon varsa Acquire false döner —
//   caller pkg.ErrConflict ile isteği reddeder, kuyruğa ALMAZ.
// - Mutasyon bitince (başarılı veya başarısız) Release çağrılır.
//
// Neden kuyruklama değil reddetme?
// İki eşzamanlı mutasyonun sıralı çalışması bile tutarsız sonuç üretebilir
// (örn. aynı bölümü iki kez silme). Kullanıcı aksiyonları zaten tek tek
// tetiklenir; overlap bir hata durumudur ve görünür olmalıdır.
//
// Neden ayrı paket?
// Hiçbir proje içi pakete bağımlı değildir (leaf dependency) —
// services katmanındaki tüm manager'lar paylaşır.
package oplock

import "sync"

// Map, entity ID → in-flight flag haritası.
// sync.Mutex ile thread-safe: Acquire/Release farklı goroutine'lerden çağrılabilir.
type Map struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

// New, boş bir kilit haritası oluşturur.
func New() *Map {
	return &Map{inFlight: make(map[string]bool)}
}

// Acquire, verilen ID için kilidi almaya çalışır.
// true: kilit alındı, mutasyon başlayabilir.
// false: aynı ID üzerinde devam eden bir mutasyon var.
func (m *Map) Acquire(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight[id] {
		return false
	}
	m.inFlight[id] = true
	return true
}

// Release, mutasyon tamamlandığında kilidi bırakır.
// Alınmamış bir kilidi bırakmak no-op'tur.
func (m *Map) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, id)
}
