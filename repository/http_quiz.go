package repository

import (
	"context"
	"net/http"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/models"
)

// httpQuizRepo, QuizRepository'nin HTTP implementasyonu.
type httpQuizRepo struct {
	client *api.Client
}

// NewHTTPQuizRepo, constructor.
func NewHTTPQuizRepo(client *api.Client) QuizRepository {
	return &httpQuizRepo{client: client}
}

func (r *httpQuizRepo) Create(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error) {
	env, err := r.client.Do(ctx, http.MethodPost, "/api/quizzes", req)
	if err != nil {
		return nil, err
	}
	return decodeQuiz(env)
}

func (r *httpQuizRepo) Get(ctx context.Context, id string) (*models.Quiz, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/quizzes/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeQuiz(env)
}

func (r *httpQuizRepo) ListByTutor(ctx context.Context, tutorID string) ([]models.Quiz, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/quizzes?tutor_id="+tutorID, nil)
	if err != nil {
		return nil, err
	}

	var quizzes []models.Quiz
	if err := env.Decode("quizzes", &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *httpQuizRepo) ReplaceQuestions(ctx context.Context, quizID string, questions []models.Question) error {
	body := map[string]any{"questions": questions}
	_, err := r.client.Do(ctx, http.MethodPut, "/api/quizzes/"+quizID+"/questions", body)
	return err
}

func (r *httpQuizRepo) SetPublished(ctx context.Context, id string, published bool) (*models.Quiz, error) {
	body := map[string]any{"is_published": published}
	env, err := r.client.Do(ctx, http.MethodPut, "/api/quizzes/"+id, body)
	if err != nil {
		return nil, err
	}
	return decodeQuiz(env)
}

func (r *httpQuizRepo) ListSubmissions(ctx context.Context, quizID string) ([]models.Submission, error) {
	env, err := r.client.Do(ctx, http.MethodGet, "/api/quizzes/"+quizID+"/submissions", nil)
	if err != nil {
		return nil, err
	}

	var submissions []models.Submission
	if err := env.Decode("submissions", &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func decodeQuiz(env api.Envelope) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := env.Decode("quiz", &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
