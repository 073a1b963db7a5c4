// Package api, dışarıdaki marketplace REST API'sine erişen paylaşılan
// HTTP client'ı barındırır.
//
// API bu sistem için opak bir sınırdır: sadece sözleşmesi bilinir —
// JSON gövde, kaynak adıyla sarılmış yanıtlar ("course", "courses", "url" ...),
// hata durumunda "error" veya "message" alanı. Bu paket o sözleşmeyi
// TEK bir yerde uygular; repository'ler HTTP detayı bilmez.
//
// Auth kuralı: her istek "Authorization: Bearer <token>" taşır, İKİ istisna
// hariç — signin ve signup. Oralarda önceki oturumdan token kalmış olsa bile
// BİLEREK gönderilmez (DoPublic).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sideeq12/tutorhub/pkg"
)

// TokenSource, o anki access token'ı sağlayan interface.
// Session store implement eder — client, token'ın nereden geldiğini bilmez.
// Token yoksa boş string döner, Authorization header'ı eklenmez.
type TokenSource interface {
	AccessToken() string
}

// Client, API'ye yapılan tüm JSON isteklerinin giriş noktası.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New, constructor.
// baseURL sonundaki "/" temizlenir; path'ler her zaman "/" ile başlar.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// BaseURL, yapılandırılmış API origin'ini döner.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Envelope, API'nin adlandırılmış kaynak sarmalayıcısı.
// Örnek başarılı yanıt: {"course": {...}} veya {"courses": [...], "total": 3}
type Envelope map[string]json.RawMessage

// Decode, envelope'taki verilen key'i out'a unmarshal eder.
// Key yoksa error döner — caller hangi kaynağı beklediğini bilir.
func (e Envelope) Decode(key string, out any) error {
	raw, ok := e[key]
	if !ok {
		return fmt.Errorf("response missing expected key %q", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// Has, envelope'ta verilen key'in bulunup bulunmadığını kontrol eder.
func (e Envelope) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// APIError, sunucunun non-2xx yanıtını temsil eder.
// Message, yanıt gövdesindeki "error" veya "message" alanından gelir;
// gövde parse edilemezse boş kalır ve sadece status code taşınır.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Do, bearer token'lı bir JSON isteği yapar.
// body nil değilse JSON encode edilip Content-Type: application/json gönderilir.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Envelope, error) {
	return c.do(ctx, method, path, body, true)
}

// DoPublic, token'ı BİLEREK göndermeyen JSON isteği yapar.
// Sadece signin/signup için kullanılır: önceki oturumun token'ı
// yeni kimlik doğrulamasına sızmamalıdır.
func (c *Client) DoPublic(ctx context.Context, method, path string, body any) (Envelope, error) {
	return c.do(ctx, method, path, body, false)
}

func (c *Client) do(ctx context.Context, method, path string, body any, withAuth bool) (Envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := c.NewRequest(ctx, method, path, reader, "application/json", withAuth)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Sunucudan yanıt yok — DNS, bağlantı, timeout vb.
		return nil, fmt.Errorf("%w: %s %s: %v", pkg.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrorFromResponse(resp)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return env, nil
}

// NewRequest, header kurallarını uygulayan ham bir *http.Request kurar.
// Upload service multipart istekleri için doğrudan bunu kullanır —
// bearer ve X-Request-ID kuralları orada da aynıdır.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader, contentType string, withAuth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Her isteğe benzersiz bir ID — sunucu loglarıyla korelasyon için.
	req.Header.Set("X-Request-ID", uuid.NewString())

	if withAuth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// ErrorFromResponse, non-2xx yanıttan APIError üretir.
// Gövdedeki "error" alanı öncelikli, yoksa "message" denenir;
// ikisi de yoksa sadece status code taşınır.
func ErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if envelope.Error != "" {
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = envelope.Message
	}
	return apiErr
}
