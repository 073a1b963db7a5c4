// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	Session  SessionConfig
	Upload   UploadConfig
}

// APIConfig, dışarıdaki marketplace REST API'sine bağlantı ayarları.
type APIConfig struct {
	BaseURL string        // API origin (ör: https://api.tutorhub.example)
	Timeout time.Duration // Normal JSON istekleri için toplam timeout
}

// DatabaseConfig, lokal SQLite ayarları.
// SQLite burada sadece oturum bilgisini (session store) kalıcılaştırır —
// kurs/quiz verisi her zaman API'den taze çekilir, lokal cache yoktur.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/tutorhub.db)
}

// SessionConfig, session store ayarları.
type SessionConfig struct {
	Secret string // Token'ları diskte şifrelemek için kullanılan secret — GİZLİ TUTULMALI
}

// UploadConfig, dosya yükleme limitleri ve timeout'ları.
// Limitler client-side kontrol edilir: geçersiz dosya network'e hiç çıkmaz.
type UploadConfig struct {
	ImageMaxSize int64         // Byte cinsinden (varsayılan: 10MB)
	VideoMaxSize int64         // Byte cinsinden (varsayılan: 100MB)
	ImageTimeout time.Duration // Upload inactivity timeout (varsayılan: 2dk)
	VideoTimeout time.Duration // Upload inactivity timeout (varsayılan: 5dk)
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	_ = godotenv.Load()

	imageMax, err := parseSize("UPLOAD_IMAGE_MAX_SIZE", 10*1024*1024)
	if err != nil {
		return nil, err
	}

	videoMax, err := parseSize("UPLOAD_VIDEO_MAX_SIZE", 100*1024*1024)
	if err != nil {
		return nil, err
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000"),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/tutorhub.db"),
		},
		Session: SessionConfig{
			Secret: secret,
		},
		Upload: UploadConfig{
			ImageMaxSize: imageMax,
			VideoMaxSize: videoMax,
			ImageTimeout: getEnvDuration("UPLOAD_IMAGE_TIMEOUT", 2*time.Minute),
			VideoTimeout: getEnvDuration("UPLOAD_VIDEO_TIMEOUT", 5*time.Minute),
		},
	}

	return cfg, nil
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// getEnvDuration, "2m", "30s" gibi duration string'lerini parse eder.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseSize, byte cinsinden boyut değerini parse eder.
func parseSize(key string, fallback int64) (int64, error) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	size, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return size, nil
}
