package repository

import (
	"context"

	"github.com/sideeq12/tutorhub/models"
)

// QuizRepository, quiz API'si interface'i.
type QuizRepository interface {
	Create(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error)
	Get(ctx context.Context, id string) (*models.Quiz, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.Quiz, error)

	// ReplaceQuestions, quiz'in soru listesini toptan değiştirir.
	ReplaceQuestions(ctx context.Context, quizID string, questions []models.Question) error

	// SetPublished, Draft ⇄ Published geçişini yapar.
	// Quiz'ler kursların aksine unpublish EDİLEBİLİR.
	SetPublished(ctx context.Context, id string, published bool) (*models.Quiz, error)

	// ListSubmissions, öğrenci denemelerini listeler (read-only).
	ListSubmissions(ctx context.Context, quizID string) ([]models.Submission, error)
}
