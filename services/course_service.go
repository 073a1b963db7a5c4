package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg"
	"github.com/sideeq12/tutorhub/pkg/oplock"
	"github.com/sideeq12/tutorhub/repository"
)

// Confirmer, geri alınamaz operasyonlar için insan onayı kapısı.
// Silme işlemleri endpoint'e gitmeden ÖNCE onay ister; reddedilirse
// network'e hiç çıkılmaz. CLI'da terminalden sorulur, testlerde fake geçilir.
type Confirmer interface {
	Confirm(prompt string) bool
}

// VideoUpload, AddVideo'nun girdi paketi: metadata + dosya içeriği.
type VideoUpload struct {
	Title       string
	Description string
	Duration    int  // Saniye cinsinden
	Preview     bool // true ise öğrenciler satın almadan izleyebilir

	Filename   string
	File       io.Reader
	Size       int64
	OnProgress func(percent int) // nil olabilir
}

// CourseService interface'i — kurs → bölüm → video hiyerarşisinin yöneticisi.
//
// İki invariant'ı client-side uygular (sunucu nihai otorite olsa da
// tutarsız veri GÖNDERMEMEK client'ın işidir):
//   - Draft → Published tek yönlüdür; kurslar unpublish edilemez.
//   - Position'lar monoton artar ve silinen kardeşten sonra asla
//     yeniden numaralandırılmaz — boşluklar normaldir.
type CourseService interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	ListTutorCourses(ctx context.Context, tutorID string) ([]models.Course, error)
	UpdateCourse(ctx context.Context, courseID string, req *models.UpdateCourseRequest) (*models.Course, error)
	PublishCourse(ctx context.Context, courseID string, form *models.CourseForm) (*models.Course, error)

	AddSection(ctx context.Context, courseID, title string, resources []string) (*models.Section, error)
	DeleteSection(ctx context.Context, sectionID string) error

	AddVideo(ctx context.Context, courseID, sectionID string, upload *VideoUpload) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

// courseService, CourseService implementasyonu.
type courseService struct {
	courseRepo repository.CourseRepository
	uploader   UploadService
	auth       AuthService
	confirm    Confirmer
	locks      *oplock.Map
}

// NewCourseService, constructor.
func NewCourseService(
	courseRepo repository.CourseRepository,
	uploader UploadService,
	auth AuthService,
	confirm Confirmer,
	locks *oplock.Map,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		uploader:   uploader,
		auth:       auth,
		confirm:    confirm,
		locks:      locks,
	}
}

// CreateCourse, yeni kursu draft olarak oluşturur.
// Zorunlu alanlardan HERHANGİ biri eksikse network'e hiç çıkılmaz ve
// eksiklerin TAMAMI tek bir ValidationError içinde döner.
func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, pkg.NewValidationError(missing...)
	}
	return s.courseRepo.Create(ctx, req)
}

func (s *courseService) ListTutorCourses(ctx context.Context, tutorID string) ([]models.Course, error) {
	return s.courseRepo.ListByTutor(ctx, tutorID)
}

func (s *courseService) UpdateCourse(ctx context.Context, courseID string, req *models.UpdateCourseRequest) (*models.Course, error) {
	if !s.locks.Acquire(courseID) {
		return nil, fmt.Errorf("%w: course %s", pkg.ErrConflict, courseID)
	}
	defer s.locks.Release(courseID)

	return s.courseRepo.Update(ctx, courseID, req)
}

// PublishCourse, kursu Draft → Published geçirir.
//
// Payload form state'inin TAMAMINDAN kurulur (kısmi update değil) —
// dışarıdaki API ile "hangi alan değişti" belirsizliğine girmemek bilinçli
// bir tercihtir. Sunucu reddederse kurs draft kalır ve pkg.ErrPublish döner.
func (s *courseService) PublishCourse(ctx context.Context, courseID string, form *models.CourseForm) (*models.Course, error) {
	if !s.locks.Acquire(courseID) {
		return nil, fmt.Errorf("%w: course %s", pkg.ErrConflict, courseID)
	}
	defer s.locks.Release(courseID)

	// Eğitmen adı oturumdaki profilden türetilir.
	snap := s.auth.Snapshot()
	instructorName := ""
	if snap.User != nil {
		instructorName = snap.User.FullName()
	}

	course, err := s.courseRepo.Publish(ctx, courseID, form.PublishPayload(instructorName))
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s", pkg.ErrPublish, apiErr.Message)
		}
		return nil, err
	}

	log.Printf("[course] published %s", courseID)
	return course, nil
}

// AddSection, kursa yeni bölüm ekler.
// Position, mevcut en büyük position + 1 olarak hesaplanır — silinmiş
// kardeşlerin numarası asla yeniden kullanılmaz, boşluklar kalır.
func (s *courseService) AddSection(ctx context.Context, courseID, title string, resources []string) (*models.Section, error) {
	if strings.TrimSpace(title) == "" {
		return nil, pkg.NewValidationError("title")
	}

	if !s.locks.Acquire(courseID) {
		return nil, fmt.Errorf("%w: course %s", pkg.ErrConflict, courseID)
	}
	defer s.locks.Release(courseID)

	sections, err := s.courseRepo.ListSections(ctx, courseID)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID:  courseID,
		Title:     strings.TrimSpace(title),
		Position:  nextPosition(sectionPositions(sections)),
		Resources: resources,
	}
	return s.courseRepo.CreateSection(ctx, section)
}

// DeleteSection, bölümü siler. Endpoint'e gitmeden önce insan onayı gerekir;
// reddedilirse hiçbir şey yapılmaz. Kalan bölümler YENİDEN NUMARALANDIRILMAZ.
func (s *courseService) DeleteSection(ctx context.Context, sectionID string) error {
	if !s.confirm.Confirm("Delete this section and all its videos?") {
		log.Printf("[course] section delete cancelled by user: %s", sectionID)
		return nil
	}

	if !s.locks.Acquire(sectionID) {
		return fmt.Errorf("%w: section %s", pkg.ErrConflict, sectionID)
	}
	defer s.locks.Release(sectionID)

	return s.courseRepo.DeleteSection(ctx, sectionID)
}

// AddVideo, bölüme video ekler.
//
// Sıralama önemlidir: ÖNCE dosya yüklenir, kullanılabilir bir URL dönerse
// video kaydı oluşturulur. Upload transport olarak başarılı olup URL
// dönmezse pkg.ErrUpload — yarım kayıt asla oluşmaz.
func (s *courseService) AddVideo(ctx context.Context, courseID, sectionID string, upload *VideoUpload) (*models.Video, error) {
	var missing []string
	if strings.TrimSpace(upload.Title) == "" {
		missing = append(missing, "title")
	}
	if upload.File == nil {
		missing = append(missing, "file")
	}
	if len(missing) > 0 {
		return nil, pkg.NewValidationError(missing...)
	}

	if !s.locks.Acquire(sectionID) {
		return nil, fmt.Errorf("%w: section %s", pkg.ErrConflict, sectionID)
	}
	defer s.locks.Release(sectionID)

	url, err := s.uploader.UploadVideo(ctx, upload.Filename, upload.File, upload.Size, upload.OnProgress)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("%w: upload succeeded but returned no url", pkg.ErrUpload)
	}

	videos, err := s.courseRepo.ListVideos(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		SectionID:   sectionID,
		CourseID:    courseID,
		Title:       strings.TrimSpace(upload.Title),
		Description: upload.Description,
		VideoURL:    url,
		Duration:    upload.Duration,
		Position:    nextPosition(videoPositions(videos)),
		Preview:     upload.Preview,
	}
	return s.courseRepo.CreateVideo(ctx, video)
}

// DeleteVideo, videoyu siler — onay kapısı DeleteSection ile aynıdır.
func (s *courseService) DeleteVideo(ctx context.Context, videoID string) error {
	if !s.confirm.Confirm("Delete this video?") {
		log.Printf("[course] video delete cancelled by user: %s", videoID)
		return nil
	}

	if !s.locks.Acquire(videoID) {
		return fmt.Errorf("%w: video %s", pkg.ErrConflict, videoID)
	}
	defer s.locks.Release(videoID)

	return s.courseRepo.DeleteVideo(ctx, videoID)
}

// nextPosition, mevcut position'ların en büyüğü + 1'i döner.
//
// Neden count+1 değil?
// [1,2,3]'ten 2 silindikten sonra count+1 = 3 olur ve mevcut 3 ile çakışır.
// max+1 ise monotonluğu korur: silinen numara asla geri gelmez.
func nextPosition(positions []int) int {
	max := 0
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	return max + 1
}

func sectionPositions(sections []models.Section) []int {
	positions := make([]int, 0, len(sections))
	for i := range sections {
		positions = append(positions, sections[i].Position)
	}
	return positions
}

func videoPositions(videos []models.Video) []int {
	positions := make([]int, 0, len(videos))
	for i := range videos {
		positions = append(positions, videos[i].Position)
	}
	return positions
}
