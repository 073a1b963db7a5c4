// Package main, tutorhub dashboard client'ının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Lokal SQLite'ı (session store) başlat
//  3. Session store anahtarını türet, repository'leri oluştur
//  4. API client'ı kur (token kaynağı = session store)
//  5. Service'leri oluştur
//  6. Route guard'ı kur
//  7. Kalıcı oturumu geri yükle (Restore)
//  8. Komutu guard'dan geçir ve çalıştır
//
// Global değişken YOK — her şey burada oluşturulup birbirine bağlanıyor.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sideeq12/tutorhub/api"
	"github.com/sideeq12/tutorhub/config"
	"github.com/sideeq12/tutorhub/database"
	"github.com/sideeq12/tutorhub/middleware"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg/crypto"
	"github.com/sideeq12/tutorhub/pkg/oplock"
	"github.com/sideeq12/tutorhub/repository"
	"github.com/sideeq12/tutorhub/services"
)

// Komut → görünüm eşlemesi. Guard bu route tanımları üzerinden karar verir —
// tarayıcıdaki navigasyonun CLI karşılığı.
var commandRoutes = map[string]middleware.Route{
	"login":          {Path: "/login"},
	"signup":         {Path: "/signup"},
	"logout":         {Path: "/", RequiresAuth: true},
	"whoami":         {Path: "/profile", RequiresAuth: true},
	"refresh":        {Path: "/profile", RequiresAuth: true},
	"courses":        {Path: "/dashboard/courses", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"course-create":  {Path: "/dashboard/courses/new", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"course-update":  {Path: "/dashboard/courses/edit", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"course-publish": {Path: "/dashboard/courses/publish", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"section-add":    {Path: "/dashboard/sections/new", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"section-delete": {Path: "/dashboard/sections", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"video-add":      {Path: "/dashboard/videos/new", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"video-delete":   {Path: "/dashboard/videos", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"quizzes":        {Path: "/dashboard/quizzes", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"quiz-create":    {Path: "/dashboard/quizzes/new", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"quiz-questions": {Path: "/dashboard/quizzes/edit", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"quiz-publish":   {Path: "/dashboard/quizzes", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"quiz-unpublish": {Path: "/dashboard/quizzes", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"submissions":    {Path: "/dashboard/quizzes/submissions", RequiresAuth: true, RequiredRole: models.RoleTutor},
	"upload-image":   {Path: "/dashboard/uploads", RequiresAuth: true, RequiredRole: models.RoleTutor},
}

// app, wire-up'ı tamamlanmış bağımlılık demeti.
type app struct {
	auth    services.AuthService
	courses services.CourseService
	quizzes services.QuizService
	uploads services.UploadService
	guard   *middleware.RouteGuard
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	// ─── 2. Database (session store) ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to load embedded migrations: %v", err)
	}
	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	sessionKey, err := crypto.DeriveKey(cfg.Session.Secret)
	if err != nil {
		log.Fatalf("[main] failed to derive session key: %v", err)
	}
	sessionRepo := repository.NewSQLiteSessionRepo(db.Conn, sessionKey)

	// ─── 4. API Client ───
	// Token kaynağı session store'dur: her istek, o anki kalıcı oturumun
	// token'ını taşır. Signin/signup DoPublic kullanır, token'dan muaftır.
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, sessionRepo)

	userRepo := repository.NewHTTPUserRepo(client)
	courseRepo := repository.NewHTTPCourseRepo(client)
	quizRepo := repository.NewHTTPQuizRepo(client)

	// ─── 5. Service Layer ───
	locks := oplock.New()
	authService := services.NewAuthService(userRepo, sessionRepo)
	uploadService := services.NewUploadService(client,
		cfg.Upload.ImageMaxSize, cfg.Upload.VideoMaxSize,
		cfg.Upload.ImageTimeout, cfg.Upload.VideoTimeout)
	courseService := services.NewCourseService(courseRepo, uploadService, authService, terminalConfirmer{}, locks)
	quizService := services.NewQuizService(quizRepo, locks)

	// ─── 6. Route Guard ───
	guard := middleware.NewRouteGuard("/login", "/dashboard", "/")

	// ─── 7. Oturumu geri yükle ───
	ctx := context.Background()
	snap := authService.Restore(ctx)

	// ─── 8. Guard + komut çalıştırma ───
	route, ok := commandRoutes[command]
	if !ok {
		usage()
		os.Exit(2)
	}

	switch decision := guard.Evaluate(snap, route); decision.Action {
	case middleware.ActionRedirect:
		if decision.Target == "/login" {
			fmt.Fprintf(os.Stderr, "not signed in — run `tutorhub login` first (wanted: %s)\n", decision.From)
		} else {
			fmt.Fprintf(os.Stderr, "this command needs the %s role (you would land on %s)\n", route.RequiredRole, decision.Target)
		}
		os.Exit(1)
	case middleware.ActionWait:
		// Restore senkron döndüğü için pratikte görülmez.
		fmt.Fprintln(os.Stderr, "session still loading, try again")
		os.Exit(1)
	}

	a := &app{
		auth:    authService,
		courses: courseService,
		quizzes: quizService,
		uploads: uploadService,
		guard:   guard,
	}
	if err := a.run(ctx, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "signup":
		return a.cmdSignup(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.cmdWhoami()
	case "refresh":
		return a.cmdRefresh(ctx)
	case "courses":
		return a.cmdCourses(ctx)
	case "course-create":
		return a.cmdCourseCreate(ctx, args)
	case "course-update":
		return a.cmdCourseUpdate(ctx, args)
	case "course-publish":
		return a.cmdCoursePublish(ctx, args)
	case "section-add":
		return a.cmdSectionAdd(ctx, args)
	case "section-delete":
		return a.cmdSectionDelete(ctx, args)
	case "video-add":
		return a.cmdVideoAdd(ctx, args)
	case "video-delete":
		return a.cmdVideoDelete(ctx, args)
	case "quizzes":
		return a.cmdQuizzes(ctx)
	case "quiz-create":
		return a.cmdQuizCreate(ctx, args)
	case "quiz-questions":
		return a.cmdQuizQuestions(ctx, args)
	case "quiz-publish":
		return a.cmdQuizSetPublished(ctx, args, true)
	case "quiz-unpublish":
		return a.cmdQuizSetPublished(ctx, args, false)
	case "submissions":
		return a.cmdSubmissions(ctx, args)
	case "upload-image":
		return a.cmdUploadImage(ctx, args)
	}
	return fmt.Errorf("unknown command %q", command)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	roleStr := fs.String("role", "tutor", "tutor | student")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	role, err := models.ParseRole(*roleStr)
	if err != nil {
		return err
	}

	req := &models.LoginRequest{Email: *email, Password: *password}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, role, req)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", user.FullName(), role)
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	roleStr := fs.String("role", "tutor", "tutor | student")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (min 8 chars)")
	expertise := fs.String("expertise", "", "subject expertise (tutors)")
	fs.Parse(args)

	role, err := models.ParseRole(*roleStr)
	if err != nil {
		return err
	}

	req := &models.SignupRequest{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
		Expertise: *expertise,
	}
	// Validasyon caller'ın işi — auth service yeniden kontrol etmez.
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := a.auth.Signup(ctx, role, req)
	if err != nil {
		return err
	}
	fmt.Printf("account created: %s (%s)\n", user.FullName(), role)
	return nil
}

func (a *app) cmdWhoami() error {
	snap := a.auth.Snapshot()
	u := snap.User
	fmt.Printf("%s <%s> — %s\n", u.FullName(), u.Email, snap.Role)
	if snap.Role == models.RoleTutor {
		fmt.Printf("expertise: %s\nbalance: %.2f\nstudents: %d, courses: %d\n",
			u.Expertise, u.AccountBalance, u.NumberOfStudents, u.NumberOfCourses)
	}
	return nil
}

func (a *app) cmdRefresh(ctx context.Context) error {
	user, err := a.auth.RefreshUserDetails(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("profile refreshed for %s\n", user.FullName())
	return nil
}

func (a *app) cmdCourses(ctx context.Context) error {
	snap := a.auth.Snapshot()
	courses, err := a.courses.ListTutorCourses(ctx, snap.User.ID)
	if err != nil {
		return err
	}
	for _, c := range courses {
		state := "draft"
		if c.IsPublished {
			state = "published"
		}
		fmt.Printf("%s  [%s]  %s (%s) — %.2f\n", c.ID, state, c.Title, c.Category, c.Price)
	}
	return nil
}

func (a *app) cmdCourseCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("course-create", flag.ExitOnError)
	title := fs.String("title", "", "course title")
	description := fs.String("description", "", "course description")
	category := fs.String("category", "", "course category")
	level := fs.String("level", "beginner", "beginner | intermediate | advanced")
	price := fs.Float64("price", 0, "course price")
	thumbnail := fs.String("thumbnail", "", "path to thumbnail image (uploaded first)")
	fs.Parse(args)

	// Thumbnail önce yüklenir — kurs isteği hazır bir URL taşımalıdır.
	thumbnailURL := ""
	if *thumbnail != "" {
		url, err := a.uploadFile(ctx, *thumbnail, a.uploads.UploadImage)
		if err != nil {
			return err
		}
		thumbnailURL = url
	}

	course, err := a.courses.CreateCourse(ctx, &models.CreateCourseRequest{
		Title:        *title,
		Description:  *description,
		Category:     *category,
		Level:        *level,
		Price:        *price,
		ThumbnailURL: thumbnailURL,
	})
	if err != nil {
		return err
	}
	fmt.Printf("course created as draft: %s\n", course.ID)
	return nil
}

func (a *app) cmdCourseUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("course-update", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	title := fs.String("title", "", "new title")
	description := fs.String("description", "", "new description")
	category := fs.String("category", "", "new category")
	level := fs.String("level", "", "new level")
	price := fs.Float64("price", -1, "new price")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	// Sadece verilen flag'ler gönderilir — kısmi update.
	req := &models.UpdateCourseRequest{}
	if *title != "" {
		req.Title = title
	}
	if *description != "" {
		req.Description = description
	}
	if *category != "" {
		req.Category = category
	}
	if *level != "" {
		req.Level = level
	}
	if *price >= 0 {
		req.Price = price
	}

	course, err := a.courses.UpdateCourse(ctx, *id, req)
	if err != nil {
		return err
	}
	fmt.Printf("course updated: %s\n", course.ID)
	return nil
}

func (a *app) cmdCoursePublish(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("course-publish", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	title := fs.String("title", "", "course title")
	description := fs.String("description", "", "course description")
	category := fs.String("category", "", "course category")
	level := fs.String("level", "beginner", "course level")
	price := fs.Float64("price", 0, "course price")
	thumbnailURL := fs.String("thumbnail-url", "", "already uploaded thumbnail url")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	course, err := a.courses.PublishCourse(ctx, *id, &models.CourseForm{
		Title:        *title,
		Description:  *description,
		Category:     *category,
		Level:        *level,
		Price:        *price,
		ThumbnailURL: *thumbnailURL,
	})
	if err != nil {
		return err
	}
	fmt.Printf("course published: %s\n", course.ID)
	return nil
}

func (a *app) cmdSectionAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("section-add", flag.ExitOnError)
	courseID := fs.String("course", "", "course id")
	title := fs.String("title", "", "section title")
	fs.Parse(args)

	section, err := a.courses.AddSection(ctx, *courseID, *title, nil)
	if err != nil {
		return err
	}
	fmt.Printf("section created at position %d: %s\n", section.Position, section.ID)
	return nil
}

func (a *app) cmdSectionDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("section-delete", flag.ExitOnError)
	id := fs.String("id", "", "section id")
	fs.Parse(args)
	return a.courses.DeleteSection(ctx, *id)
}

func (a *app) cmdVideoAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("video-add", flag.ExitOnError)
	courseID := fs.String("course", "", "course id")
	sectionID := fs.String("section", "", "section id")
	title := fs.String("title", "", "video title")
	description := fs.String("description", "", "video description")
	path := fs.String("file", "", "path to video file")
	duration := fs.Int("duration", 0, "duration in seconds")
	preview := fs.Bool("preview", false, "free preview video")
	fs.Parse(args)

	file, size, err := openUpload(*path)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	upload := &services.VideoUpload{
		Title:       *title,
		Description: *description,
		Duration:    *duration,
		Preview:     *preview,
		Filename:    filepath.Base(*path),
		Size:        size,
		OnProgress:  printProgress,
	}
	if file != nil {
		upload.File = file
	}

	video, err := a.courses.AddVideo(ctx, *courseID, *sectionID, upload)
	if err != nil {
		return err
	}
	fmt.Printf("\nvideo created at position %d: %s\n", video.Position, video.ID)
	return nil
}

func (a *app) cmdVideoDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("video-delete", flag.ExitOnError)
	id := fs.String("id", "", "video id")
	fs.Parse(args)
	return a.courses.DeleteVideo(ctx, *id)
}

func (a *app) cmdQuizzes(ctx context.Context) error {
	snap := a.auth.Snapshot()
	quizzes, err := a.quizzes.ListTutorQuizzes(ctx, snap.User.ID)
	if err != nil {
		return err
	}
	for _, q := range quizzes {
		state := "draft"
		if q.IsPublished {
			state = "published"
		}
		fmt.Printf("%s  [%s]  %s (pass: %d%%, attempts: %d)\n", q.ID, state, q.Title, q.PassingScorePercent, q.MaxAttempts)
	}
	return nil
}

func (a *app) cmdQuizCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quiz-create", flag.ExitOnError)
	path := fs.String("file", "", "path to quiz definition (JSON)")
	fs.Parse(args)

	var req models.CreateQuizRequest
	if err := readJSONFile(*path, &req); err != nil {
		return err
	}

	quiz, err := a.quizzes.CreateQuiz(ctx, &req)
	if err != nil {
		return err
	}
	fmt.Printf("quiz created as draft: %s\n", quiz.ID)
	return nil
}

func (a *app) cmdQuizQuestions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quiz-questions", flag.ExitOnError)
	id := fs.String("id", "", "quiz id")
	path := fs.String("file", "", "path to question list (JSON array)")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	var questions []models.Question
	if err := readJSONFile(*path, &questions); err != nil {
		return err
	}

	if err := a.quizzes.ReplaceQuestions(ctx, *id, questions); err != nil {
		return err
	}
	fmt.Printf("quiz %s now has %d questions\n", *id, len(questions))
	return nil
}

func (a *app) cmdQuizSetPublished(ctx context.Context, args []string, published bool) error {
	name := "quiz-publish"
	if !published {
		name = "quiz-unpublish"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "quiz id")
	fs.Parse(args)

	var (
		quiz *models.Quiz
		err  error
	)
	if published {
		quiz, err = a.quizzes.PublishQuiz(ctx, *id)
	} else {
		quiz, err = a.quizzes.UnpublishQuiz(ctx, *id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("quiz %s is_published=%t\n", quiz.ID, quiz.IsPublished)
	return nil
}

func (a *app) cmdSubmissions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submissions", flag.ExitOnError)
	quizID := fs.String("quiz", "", "quiz id")
	fs.Parse(args)

	submissions, err := a.quizzes.ListSubmissions(ctx, *quizID)
	if err != nil {
		return err
	}
	for _, sub := range submissions {
		result := "failed"
		if sub.Passed {
			result = "passed"
		}
		fmt.Printf("%s  attempt %d  score %d  %s  (%s)\n",
			sub.StudentID, sub.AttemptNumber, sub.Score, result, sub.SubmittedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) cmdUploadImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload-image", flag.ExitOnError)
	path := fs.String("file", "", "path to image file")
	fs.Parse(args)

	url, err := a.uploadFile(ctx, *path, a.uploads.UploadImage)
	if err != nil {
		return err
	}
	fmt.Printf("\nuploaded: %s\n", url)
	return nil
}

// uploadFile, diskteki dosyayı verilen upload fonksiyonuyla yükler.
func (a *app) uploadFile(
	ctx context.Context,
	path string,
	fn func(context.Context, string, io.Reader, int64, func(int)) (string, error),
) (string, error) {
	file, size, err := openUpload(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return fn(ctx, filepath.Base(path), file, size, printProgress)
}

// readJSONFile, diskteki JSON dosyasını out'a unmarshal eder.
func readJSONFile(path string, out any) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// openUpload, upload edilecek dosyayı açar ve boyutunu döner.
// path boşsa (nil, 0, nil) döner — validasyonu service katmanı yapar.
func openUpload(path string) (*os.File, int64, error) {
	if path == "" {
		return nil, 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return file, info.Size(), nil
}

// printProgress, upload yüzdesini tek satırda günceller.
func printProgress(percent int) {
	fmt.Printf("\ruploading... %3d%%", percent)
}

// terminalConfirmer, silme onayını terminalden sorar.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func usage() {
	fmt.Fprintln(os.Stderr, `tutorhub — tutor dashboard client

auth:
  login | signup | logout | whoami | refresh

courses:
  courses | course-create | course-update | course-publish
  section-add | section-delete
  video-add | video-delete

quizzes:
  quizzes | quiz-create | quiz-questions
  quiz-publish | quiz-unpublish | submissions

uploads:
  upload-image`)
}
