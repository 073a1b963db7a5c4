package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
)

// httpCourseRepo, CourseRepository'nin HTTP implementasyonu.
type httpCourseRepo struct {
	client *api.Client
}

// NewHTTPCourseRepo, constructor.
func NewHTTPCourseRepo(client *api.Client) CourseRepository {
	return &httpCourseRepo{client: client}
}

// courseRecord, API'den gelen ham kurs kaydı.
//
// Neden models.Course değil?
// Backend eski kayıtlarda is_published'ı string ("true") gönderebiliyor ve
// category alanı hiç olmayabiliyor. Ham kayıt burada normalize edilir;
// models.Course her zaman temiz tiplerle dolaşır.
type courseRecord struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Level        string          `json:"level"`
	Price        float64         `json:"price"`
	ThumbnailURL string          `json:"thumbnail_url"`
	IsPublished  json.RawMessage `json:"is_published"`
	InstructorID string          `json:"instructor_id"`
}

// normalize, ham kaydı models.Course'a çevirir.
// Kurallar: category yoksa "General"; is_published bool veya "true" string'i olabilir.
func (rec *courseRecord) normalize() models.Course {
	category := rec.Category
	if category == "" {
		category = "General"
	}
	return models.Course{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Category:     category,
		Level:        rec.Level,
		Price:        rec.Price,
		ThumbnailURL: rec.ThumbnailURL,
		IsPublished:  coerceBool(rec.IsPublished),
		InstructorID: rec.InstructorID,
	}
}

// coerceBool, bool veya string truthy temsillerini tek bool'a indirger.
// Kabul edilenler: true, "true". Diğer her şey (yok, null, false, "false") → false.
func coerceBool(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return bytes.Equal(trimmed, []byte(`true`)) || bytes.Equal(trimmed, []byte(`"true"`))
}

func (r *httpCourseRepo) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	env, err := r.client.Do(ctx, http.MethodPost, "/api/courses", req)
	if err != nil {
		return nil, err
	}
	return decodeCourse(env)
}

func (r *httpCourseRepo) Get(ctx context.Context, id string) (*models.Course, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/courses/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeCourse(env)
}

func (r *httpCourseRepo) ListByTutor(ctx context.Context, tutorID string) ([]models.Course, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/courses?instructor_id="+tutorID, nil)
	if err != nil {
		return nil, err
	}

	var records []courseRecord
	if err := env.Decode("courses", &records); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(records))
	for i := range records {
		courses = append(courses, records[i].normalize())
	}
	return courses, nil
}

func (r *httpCourseRepo) Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	env, err := r.client.Do(ctx, http.MethodPut, "/api/courses/"+id, req)
	if err != nil {
		return nil, err
	}
	return decodeCourse(env)
}

func (r *httpCourseRepo) Publish(ctx context.Context, id string, payload *models.CoursePublishPayload) (*models.Course, error) {
	env, err := r.client.Do(ctx, http.MethodPut, "/api/courses/"+id, payload)
	if err != nil {
		return nil, err
	}
	return decodeCourse(env)
}

func (r *httpCourseRepo) ListSections(ctx context.Context, courseID string) ([]models.Section, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/sections?course_id="+courseID, nil)
	if err != nil {
		return nil, err
	}

	var sections []models.Section
	if err := env.Decode("sections", &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *httpCourseRepo) CreateSection(ctx context.Context, section *models.Section) (*models.Section, error) {
	env, err := r.client.Do(ctx, http.MethodPost, "/api/sections", section)
	if err != nil {
		return nil, err
	}

	var created models.Section
	if err := env.Decode("section", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *httpCourseRepo) DeleteSection(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, http.MethodDelete, "/api/sections/"+id, nil)
	return err
}

func (r *httpCourseRepo) ListVideos(ctx context.Context, sectionID string) ([]models.Video, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/videos?section_id="+sectionID, nil)
	if err != nil {
		return nil, err
	}

	var videos []models.Video
	if err := env.Decode("videos", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *httpCourseRepo) CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	env, err := r.client.Do(ctx, http.MethodPost, "/api/videos", video)
	if err != nil {
		return nil, err
	}

	var created models.Video
	if err := env.Decode("video", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *httpCourseRepo) DeleteVideo(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, http.MethodDelete, "/api/videos/"+id, nil)
	return err
}

// decodeCourse, "course" key'i altındaki tek kaydı normalize ederek döner.
func decodeCourse(env api.Envelope) (*models.Course, error) {
	var record courseRecord
	if err := env.Decode("course", &record); err != nil {
		return nil, err
	}
	course := record.normalize()
	return &course, nil
}
