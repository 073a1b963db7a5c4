package repository

import (
	"context"

	"github.com/sideeq12/tutorhub/models"
)

// CourseRepository, kurs içerik API'si interface'i.
// Kurs → bölüm → video hiyerarşisinin CRUD operasyonlarını kapsar.
// İş kuralları (validasyon, position hesabı, onay kapısı) service katmanındadır;
// burası sadece wire sözleşmesidir.
type CourseRepository interface {
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.Course, error)
	Update(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error)

	// Publish, tam kayıt gövdesiyle PUT yapar — kısmi update değil.
	Publish(ctx context.Context, id string, payload *models.CoursePublishPayload) (*models.Course, error)

	ListSections(ctx context.Context, courseID string) ([]models.Section, error)
	CreateSection(ctx context.Context, section *models.Section) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error

	ListVideos(ctx context.Context, sectionID string) ([]models.Video, error)
	CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}
