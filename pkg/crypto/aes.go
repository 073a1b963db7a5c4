// Package crypto — AES-256-GCM şifreleme/çözümleme fonksiyonları.
//
// Session store'daki access/refresh token'ları diskte şifrelenmiş saklamak
// için kullanılır. SQLite dosyasını ele geçiren biri token'ları okuyamaz.
//
// AES-256-GCM nedir?
// - AES-256: 256-bit anahtar ile şifreleme (symmetric encryption)
// - GCM (Galois/Counter Mode): hem gizlilik hem bütünlük sağlar (authenticated encryption)
// - Nonce: her şifreleme için rastgele üretilen 12-byte değer — aynı key ile bile
//   her ciphertext farklı olur
//
// Kullanım:
//
//	key, _ := crypto.DeriveKey("app-secret")
//	encrypted, _ := crypto.Encrypt("token", key)
//	decrypted, _ := crypto.Decrypt(encrypted, key)
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfInfo, anahtar türetmeyi bu kullanım alanına bağlayan context string.
// Aynı secret başka bir amaç için türetilirse farklı anahtar çıkar.
var hkdfInfo = []byte("tutorhub-session-store")

// DeriveKey, uygulama secret'ından 32-byte AES-256 anahtarı türetir.
//
// Neden doğrudan secret'ı anahtar olarak kullanmıyoruz?
// Secret'lar genellikle düşük entropili ve rastgele uzunluktadır.
// HKDF-SHA256, herhangi bir uzunluktaki input'tan kriptografik olarak
// güvenli, tam 32-byte bir anahtar üretir.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret must not be empty")
	}

	h := hkdf.New(sha256.New, []byte(secret), nil, hkdfInfo)
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("hkdf key derivation: %w", err)
	}
	return key, nil
}

// Encrypt, plaintext'i AES-256-GCM ile şifreler.
// Dönen string base64-encoded: nonce (12 byte) + ciphertext.
func Encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	// Nonce: her şifreleme için rastgele 12-byte değer.
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	// Seal: nonce + ciphertext + authentication tag birleştirilir.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt, AES-256-GCM ile şifrelenmiş base64 string'i çözer.
func Decrypt(encoded string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	// İlk 12 byte = nonce, gerisi = ciphertext + auth tag
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open (decryption failed — wrong key or corrupted data): %w", err)
	}

	return string(plaintext), nil
}
