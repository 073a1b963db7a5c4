package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg"
	"github.com/sideeq12/tutorhub/pkg/oplock"
	"github.com/sideeq12/tutorhub/repository"
)

// QuizService interface'i — quiz yazarlığı ve notlandırma incelemesi.
//
// Kurslardan farklı olarak quiz state machine'i İKİ yönlüdür:
// Draft ⇄ Published. Bu asimetri üründen gelir, "düzeltilecek" bir şey değildir.
type QuizService interface {
	CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error)
	ListTutorQuizzes(ctx context.Context, tutorID string) ([]models.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID string, questions []models.Question) error
	PublishQuiz(ctx context.Context, quizID string) (*models.Quiz, error)
	UnpublishQuiz(ctx context.Context, quizID string) (*models.Quiz, error)

	// ListSubmissions, öğrenci denemelerini inceleme için listeler.
	// Tutor tarafında tamamen read-only'dir.
	ListSubmissions(ctx context.Context, quizID string) ([]models.Submission, error)
}

// quizService, QuizService implementasyonu.
type quizService struct {
	quizRepo repository.QuizRepository
	locks    *oplock.Map
}

// NewQuizService, constructor.
func NewQuizService(quizRepo repository.QuizRepository, locks *oplock.Map) QuizService {
	return &quizService{quizRepo: quizRepo, locks: locks}
}

func (s *quizService) CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error) {
	if err := req.Validate(); err != nil {
		// Validasyon network'e çıkmadan biter.
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}
	return s.quizRepo.Create(ctx, req)
}

func (s *quizService) ListTutorQuizzes(ctx context.Context, tutorID string) ([]models.Quiz, error) {
	return s.quizRepo.ListByTutor(ctx, tutorID)
}

func (s *quizService) ReplaceQuestions(ctx context.Context, quizID string, questions []models.Question) error {
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %s", pkg.ErrValidation, i+1, err.Error())
		}
	}

	if !s.locks.Acquire(quizID) {
		return fmt.Errorf("%w: quiz %s", pkg.ErrConflict, quizID)
	}
	defer s.locks.Release(quizID)

	return s.quizRepo.ReplaceQuestions(ctx, quizID, questions)
}

func (s *quizService) PublishQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	return s.setPublished(ctx, quizID, true)
}

func (s *quizService) UnpublishQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	return s.setPublished(ctx, quizID, false)
}

func (s *quizService) ListSubmissions(ctx context.Context, quizID string) ([]models.Submission, error) {
	return s.quizRepo.ListSubmissions(ctx, quizID)
}

func (s *quizService) setPublished(ctx context.Context, quizID string, published bool) (*models.Quiz, error) {
	if !s.locks.Acquire(quizID) {
		return nil, fmt.Errorf("%w: quiz %s", pkg.ErrConflict, quizID)
	}
	defer s.locks.Release(quizID)

	quiz, err := s.quizRepo.SetPublished(ctx, quizID, published)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s", pkg.ErrPublish, apiErr.Message)
		}
		return nil, err
	}

	log.Printf("[quiz] %s is_published=%t", quizID, published)
	return quiz, nil
}
