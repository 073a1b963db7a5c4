package models

import (
	"fmt"
	"strings"
	"time"
)

// Quiz, bir tutor'ın sahip olduğu quiz'i temsil eder.
//
// Kursların aksine quiz state machine'i iki yönlüdür:
// Draft ⇄ Published. Unpublish edilebilir — bu asimetri korunmalıdır.
type Quiz struct {
	ID                  string `json:"id"`
	TutorID             string `json:"tutor_id"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	TimeLimitMinutes    int    `json:"time_limit_minutes,omitempty"`
	PassingScorePercent int    `json:"passing_score_percent"`
	MaxAttempts         int    `json:"max_attempts"`
	IsPublished         bool   `json:"is_published"`
}

// Question, quiz içindeki sıralı bir soruyu temsil eder.
type Question struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation,omitempty"`
	Points             int      `json:"points"`
}

// Validate, sorunun tutarlı olup olmadığını kontrol eder.
// Kurallar: 2-6 seçenek, doğru cevap index'i seçenek aralığında, pozitif puan.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) < 2 || len(q.Options) > 6 {
		return fmt.Errorf("question must have between 2 and 6 options, got %d", len(q.Options))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return fmt.Errorf("correct answer index %d out of range [0, %d)", q.CorrectAnswerIndex, len(q.Options))
	}
	if q.Points <= 0 {
		return fmt.Errorf("points must be positive")
	}
	return nil
}

// Submission, bir öğrencinin quiz denemesini temsil eder.
// Tutor tarafında READ-ONLY'dir — notlandırma incelemesi için listelenir,
// asla client'tan mutate edilmez.
type Submission struct {
	StudentID     string    `json:"student_id"`
	Score         int       `json:"score"`
	AttemptNumber int       `json:"attempt_number"`
	TimeTaken     int       `json:"time_taken"`
	Passed        bool      `json:"passed"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CreateQuizRequest, yeni quiz oluşturma isteği.
type CreateQuizRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	TimeLimitMinutes    int        `json:"time_limit_minutes,omitempty"`
	PassingScorePercent int        `json:"passing_score_percent"`
	MaxAttempts         int        `json:"max_attempts"`
	Questions           []Question `json:"questions"`
}

// Validate, quiz isteğinin tutarlı olup olmadığını kontrol eder.
func (r *CreateQuizRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if r.PassingScorePercent < 0 || r.PassingScorePercent > 100 {
		return fmt.Errorf("passing score must be between 0 and 100")
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	for i := range r.Questions {
		if err := r.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
