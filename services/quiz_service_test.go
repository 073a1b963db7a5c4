package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg"
	"github.com/sideeq12/tutorhub/pkg/oplock"
)

// fakeQuizRepo, QuizRepository'nin test implementasyonu.
type fakeQuizRepo struct {
	createCalls  int
	replaceCalls int

	setPublishedErr  error
	lastPublishedVal bool
}

func (f *fakeQuizRepo) Create(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error) {
	f.createCalls++
	return &models.Quiz{ID: "q1", Title: req.Title}, nil
}

func (f *fakeQuizRepo) Get(ctx context.Context, id string) (*models.Quiz, error) {
	return &models.Quiz{ID: id}, nil
}

func (f *fakeQuizRepo) ListByTutor(ctx context.Context, tutorID string) ([]models.Quiz, error) {
	return nil, nil
}

func (f *fakeQuizRepo) ReplaceQuestions(ctx context.Context, quizID string, questions []models.Question) error {
	f.replaceCalls++
	return nil
}

func (f *fakeQuizRepo) SetPublished(ctx context.Context, quizID string, published bool) (*models.Quiz, error) {
	if f.setPublishedErr != nil {
		return nil, f.setPublishedErr
	}
	f.lastPublishedVal = published
	return &models.Quiz{ID: quizID, IsPublished: published}, nil
}

func (f *fakeQuizRepo) ListSubmissions(ctx context.Context, quizID string) ([]models.Submission, error) {
	return nil, nil
}

func validQuizRequest() *models.CreateQuizRequest {
	return &models.CreateQuizRequest{
		Title:               "Go basics",
		PassingScorePercent: 70,
		MaxAttempts:         3,
		Questions: []models.Question{{
			Question:           "What does := do?",
			Options:            []string{"declares and assigns", "compares"},
			CorrectAnswerIndex: 0,
			Points:             5,
		}},
	}
}

func TestCreateQuizValidatesBeforeNetwork(t *testing.T) {
	repo := &fakeQuizRepo{}
	svc := NewQuizService(repo, oplock.New())

	req := validQuizRequest()
	req.MaxAttempts = 0
	_, err := svc.CreateQuiz(context.Background(), req)
	if !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("createCalls = %d, want 0", repo.createCalls)
	}
}

func TestCreateQuiz(t *testing.T) {
	repo := &fakeQuizRepo{}
	svc := NewQuizService(repo, oplock.New())

	quiz, err := svc.CreateQuiz(context.Background(), validQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if quiz.ID != "q1" {
		t.Fatalf("quiz = %+v", quiz)
	}
}

func TestQuizPublishIsReversible(t *testing.T) {
	repo := &fakeQuizRepo{}
	svc := NewQuizService(repo, oplock.New())
	ctx := context.Background()

	quiz, err := svc.PublishQuiz(ctx, "q1")
	if err != nil {
		t.Fatalf("PublishQuiz failed: %v", err)
	}
	if !quiz.IsPublished {
		t.Fatal("quiz not published")
	}

	// Kursların aksine quiz geri çekilebilir.
	quiz, err = svc.UnpublishQuiz(ctx, "q1")
	if err != nil {
		t.Fatalf("UnpublishQuiz failed: %v", err)
	}
	if quiz.IsPublished {
		t.Fatal("quiz still published after unpublish")
	}
	if repo.lastPublishedVal {
		t.Fatal("repo received is_published=true on unpublish")
	}
}

func TestQuizPublishServerErrorWrapsErrPublish(t *testing.T) {
	repo := &fakeQuizRepo{setPublishedErr: &api.APIError{Status: 422, Message: "quiz has no questions"}}
	svc := NewQuizService(repo, oplock.New())

	_, err := svc.PublishQuiz(context.Background(), "q1")
	if !errors.Is(err, pkg.ErrPublish) {
		t.Fatalf("error = %v, want ErrPublish", err)
	}
}

func TestReplaceQuestionsValidatesEach(t *testing.T) {
	repo := &fakeQuizRepo{}
	svc := NewQuizService(repo, oplock.New())

	broken := []models.Question{
		validQuizRequest().Questions[0],
		{Question: "Broken", Options: []string{"only one"}, Points: 1},
	}
	err := svc.ReplaceQuestions(context.Background(), "q1", broken)
	if !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if repo.replaceCalls != 0 {
		t.Fatalf("replaceCalls = %d, want 0", repo.replaceCalls)
	}
}

func TestConcurrentQuizMutationConflicts(t *testing.T) {
	repo := &fakeQuizRepo{}
	locks := oplock.New()
	svc := NewQuizService(repo, locks)

	if !locks.Acquire("q1") {
		t.Fatal("setup: failed to acquire lock")
	}
	defer locks.Release("q1")

	_, err := svc.PublishQuiz(context.Background(), "q1")
	if !errors.Is(err, pkg.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}
