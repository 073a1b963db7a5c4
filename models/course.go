package models

import "strings"

// Course, bir tutor'ın sahip olduğu kursu temsil eder.
//
// Yaşam döngüsü: create ile draft (IsPublished=false) başlar, update ile
// mutate edilir, publish ile Published olur. Kurs için geri dönüş YOKTUR —
// quiz'lerin aksine unpublish edilemez. Bu asimetri bilinçlidir.
type Course struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Level        string  `json:"level"`
	Price        float64 `json:"price"`
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published"`
	InstructorID string  `json:"instructor_id"`
}

// Section, kurs içindeki sıralı video grubunu temsil eder.
//
// Position gap-tolerant'tır: silinen bölümlerden sonra kalanlar
// YENİDEN NUMARALANDIRILMAZ. [1,2,3]'ten 2 silinirse [1,3] kalır.
// Consumer'lar index'e değil position'a göre sıralamalıdır.
type Section struct {
	ID        string   `json:"id"`
	CourseID  string   `json:"course_id"`
	Title     string   `json:"title"`
	Position  int      `json:"position"`
	Resources []string `json:"resources,omitempty"`
}

// Video, bir bölüme bağlı video dersini temsil eder.
// Position semantiği Section ile aynıdır, bölüm bazında scope'ludur.
type Video struct {
	ID          string `json:"id"`
	SectionID   string `json:"section_id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
	Position    int    `json:"position"`
	Preview     bool   `json:"preview"`
}

// CreateCourseRequest, yeni kurs oluşturma isteği.
// ThumbnailURL daha önce upload edilmiş bir görüntünün URL'si olmalıdır —
// kurs oluşturma akışında önce thumbnail yüklenir, sonra bu istek gönderilir.
type CreateCourseRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Level        string  `json:"level"`
	Price        float64 `json:"price"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

// MissingFields, zorunlu alanlardan eksik olanların listesini döner.
// Boş liste = istek geçerli. Service bu listeyi ValidationError'a çevirir —
// TEK seferde TÜM eksikler raporlanır ve network'e hiç çıkılmaz.
// Alanlar başta trim'lenir: sadece whitespace'ten oluşan bir başlık
// geçerli sayılmaz ve network'e hiç ulaşmaz.
func (r *CreateCourseRequest) MissingFields() []string {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.ThumbnailURL = strings.TrimSpace(r.ThumbnailURL)

	var missing []string
	if r.Title == "" {
		missing = append(missing, "title")
	}
	if r.Description == "" {
		missing = append(missing, "description")
	}
	if r.Category == "" {
		missing = append(missing, "category")
	}
	if r.ThumbnailURL == "" {
		missing = append(missing, "thumbnail")
	}
	return missing
}

// UpdateCourseRequest, draft kurs üzerinde kısmi güncelleme.
// Pointer field'lar "gönderilmedi" ile "boş değere çek" ayrımını sağlar.
type UpdateCourseRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Level        *string  `json:"level,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
}

// CourseForm, publish anındaki kurs form state'inin tamamı.
// Publish payload'ı bu form'dan EKSİKSİZ kurulur (bkz. PublishPayload) —
// kısmi update'in API tarafında yaratacağı belirsizlikten kaçınmak için
// kayıt toptan değiştirilir.
type CourseForm struct {
	Title        string
	Description  string
	Category     string
	Level        string
	Price        float64
	ThumbnailURL string
}

// CoursePublishPayload, publish isteğinin tam gövdesi.
// UI'da toplanmayan alanlar sabit varsayılanlarla gönderilir.
type CoursePublishPayload struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Level              string   `json:"level"`
	Price              float64  `json:"price"`
	ThumbnailURL       string   `json:"thumbnail_url"`
	InstructorName     string   `json:"instructor_name"`
	Requirements       []string `json:"requirements"`
	CertificateOffered bool     `json:"certificate_offered"`
	Tags               []string `json:"tags"`
	IsPublished        bool     `json:"is_published"`
}

// PublishPayload, form state'inden eksiksiz publish gövdesi kurar.
// instructorName oturum açmış tutor'ın profilinden türetilir.
func (f *CourseForm) PublishPayload(instructorName string) *CoursePublishPayload {
	return &CoursePublishPayload{
		Title:              f.Title,
		Description:        f.Description,
		Category:           f.Category,
		Level:              f.Level,
		Price:              f.Price,
		ThumbnailURL:       f.ThumbnailURL,
		InstructorName:     instructorName,
		Requirements:       []string{}, // UI'da toplanmıyor — sabit varsayılan
		CertificateOffered: false,
		Tags:               []string{},
		IsPublished:        true,
	}
}
