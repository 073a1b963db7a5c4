package models

import "time"

// Session, API'den alınan token çiftini ve geçerlilik süresini temsil eder.
//
// Sahibi session store'dur: başarılı signin/signup'ta oluşturulur,
// refresh'te toptan üzerine yazılır, logout'ta silinir.
// Geçerlilik kuralı tektir: ExpiresAt (epoch saniye) > şimdi.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // Epoch saniye
}

// Valid, oturumun hâlâ geçerli olup olmadığını kontrol eder.
// Token mevcut olsa bile süresi dolmuşsa false döner.
func (s *Session) Valid() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt > time.Now().Unix()
}
