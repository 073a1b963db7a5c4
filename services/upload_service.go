package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/pkg"
)

// UploadService, dosya yükleme interface'i.
//
// Sözleşme:
//   - Tip/boyut kontrolü network'e çıkmadan yapılır; ihlal senkron
//     ValidationError'dır.
//   - onProgress 0-100 arası tamsayı yüzde alır, upload başına monoton
//     artar (asla geri gitmez).
//   - Inactivity timeout aşılırsa pkg.ErrTimeout.
//   - Çağrı başına TEK deneme: retry yok, resume yok — başarısız upload
//     caller tarafından sıfırdan başlatılır.
type UploadService interface {
	UploadImage(ctx context.Context, filename string, file io.Reader, size int64, onProgress func(int)) (string, error)
	UploadVideo(ctx context.Context, filename string, file io.Reader, size int64, onProgress func(int)) (string, error)
}

// İzin verilen dosya uzantıları → MIME type.
// Kontrol client-side'dır; sunucu ayrıca kendi kontrolünü yapar.
var (
	allowedImageTypes = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}
	allowedVideoTypes = map[string]string{
		".mp4":  "video/mp4",
		".mpeg": "video/mpeg",
		".mpg":  "video/mpeg",
		".mov":  "video/quicktime",
		".avi":  "video/x-msvideo",
		".webm": "video/webm",
	}
)

// uploadService, UploadService implementasyonu.
type uploadService struct {
	client     *api.Client
	httpClient *http.Client // Timeout'suz — inactivity watchdog context'i keser

	imageMaxSize int64
	videoMaxSize int64
	imageTimeout time.Duration
	videoTimeout time.Duration
}

// NewUploadService, constructor.
func NewUploadService(client *api.Client, imageMaxSize, videoMaxSize int64, imageTimeout, videoTimeout time.Duration) UploadService {
	return &uploadService{
		client:       client,
		httpClient:   &http.Client{},
		imageMaxSize: imageMaxSize,
		videoMaxSize: videoMaxSize,
		imageTimeout: imageTimeout,
		videoTimeout: videoTimeout,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, filename string, file io.Reader, size int64, onProgress func(int)) (string, error) {
	return s.upload(ctx, "/api/uploads/image", filename, file, size, s.imageMaxSize, allowedImageTypes, s.imageTimeout, onProgress)
}

func (s *uploadService) UploadVideo(ctx context.Context, filename string, file io.Reader, size int64, onProgress func(int)) (string, error) {
	return s.upload(ctx, "/api/uploads/video", filename, file, size, s.videoMaxSize, allowedVideoTypes, s.videoTimeout, onProgress)
}

// upload, tek bir dosyayı multipart/form-data olarak stream eder.
func (s *uploadService) upload(
	ctx context.Context,
	path, filename string,
	file io.Reader,
	size, maxSize int64,
	allowed map[string]string,
	timeout time.Duration,
	onProgress func(int),
) (string, error) {
	// ─── Client-side validasyon — ihlalde network'e HİÇ çıkılmaz ───
	var invalid []string
	mimeType, ok := allowed[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		invalid = append(invalid, "type")
	}
	if size <= 0 || size > maxSize {
		invalid = append(invalid, "size")
	}
	if len(invalid) > 0 {
		return "", pkg.NewValidationError(invalid...)
	}

	// ─── Progress + inactivity takibi ───
	progress := &progressReader{
		src:        file,
		total:      size,
		onProgress: onProgress,
		lastActive: time.Now(),
	}

	// ─── Multipart gövdeyi pipe üzerinden stream et ───
	// io.Pipe sayesinde 100MB'lık video belleğe alınmadan akar:
	// writer goroutine'i dosyayı parça parça yazar, HTTP transport okur.
	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)

	// Watchdog: timeout boyunca hiç byte akmadıysa isteği iptal et.
	// http.Client.Timeout kullanmıyoruz çünkü o TOPLAM süreyi sınırlar —
	// yavaş ama ilerleyen büyük bir upload'ı haksız yere keser.
	//
	// İptal İKİ yönden yapılmak zorundadır: context cancel tek başına
	// yetmez — kaynak (dosya/pipe) takıldığında transport, gövdeyi
	// okuyan write loop'u beklemekte ve o da pipe üzerinde bloke
	// durumdadır. Pipe'ın iki ucu da kapatılır ki hem gövde kopyası
	// hem httpClient.Do kesin olarak dönsün.
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	watchdogDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if progress.idleFor() > timeout {
					timedOut.Store(true)
					stallErr := fmt.Errorf("no upload progress for %s", timeout)
					pipeWriter.CloseWithError(stallErr)
					pipeReader.CloseWithError(stallErr)
					cancel()
					return
				}
			case <-watchdogDone:
				return
			}
		}
	}()
	defer close(watchdogDone)

	go func() {
		part, err := writer.CreatePart(map[string][]string{
			"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename))},
			"Content-Type":        {mimeType},
		})
		if err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, progress); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		pipeWriter.CloseWithError(writer.Close())
	}()

	req, err := s.client.NewRequest(uploadCtx, http.MethodPost, path, pipeReader, writer.FormDataContentType(), true)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if timedOut.Load() {
			return "", fmt.Errorf("%w: no upload progress for %s", pkg.ErrTimeout, timeout)
		}
		return "", fmt.Errorf("%w: upload transport: %v", pkg.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := api.ErrorFromResponse(resp)
		if apiErr.Message == "" {
			// Gövde parse edilemedi — en azından status code'u taşı.
			return "", fmt.Errorf("%w: status %d", pkg.ErrUpload, apiErr.Status)
		}
		return "", fmt.Errorf("%w: %s", pkg.ErrUpload, apiErr.Message)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(resp.Body, &result); err != nil {
		// Watchdog gövde okunurken de tetiklenebilir — o durumda hata
		// sunucunun değil, takılan upload'ın hatasıdır.
		if timedOut.Load() {
			return "", fmt.Errorf("%w: no upload progress for %s", pkg.ErrTimeout, timeout)
		}
		return "", fmt.Errorf("%w: unreadable upload response: %v", pkg.ErrUpload, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("%w: upload succeeded but returned no url", pkg.ErrUpload)
	}

	log.Printf("[upload] %s -> %s", filepath.Base(filename), result.URL)
	return result.URL, nil
}

// progressReader, okunan byte'ları sayıp yüzdeyi raporlayan io.Reader.
// Yüzde monoton artar: transport retry gibi durumlarda bile geri gitmez.
type progressReader struct {
	src        io.Reader
	total      int64
	onProgress func(int)

	mu          sync.Mutex
	sent        int64
	lastPercent int
	lastActive  time.Time
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.src.Read(buf)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		p.lastActive = time.Now()
		percent := int(p.sent * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent > p.lastPercent {
			p.lastPercent = percent
			if p.onProgress != nil {
				p.onProgress(percent)
			}
		}
		p.mu.Unlock()
	}
	return n, err
}

// idleFor, son byte akışından bu yana geçen süreyi döner.
func (p *progressReader) idleFor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastActive)
}

// decodeJSON, küçük bir yardımcı — upload yanıtı envelope'suz tek obje döner.
func decodeJSON(r io.Reader, out any) error {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
