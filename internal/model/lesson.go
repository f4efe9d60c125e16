package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentTypeText  = "text"
	ContentTypeVideo = "video"
	ContentTypeQuiz  = "quiz"
)

type CourseModule struct {
	ID          string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	CourseID    string         `json:"course_id" gorm:"type:varchar(36);not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	OrderIndex  int            `json:"order_index" gorm:"not null;default:0"`
	Lessons     []Lesson       `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *CourseModule) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// Lesson is a unit of course content. For ContentTypeQuiz the Content column
// holds the JSON-encoded canonical question list, answer keys included.
type Lesson struct {
	ID              string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	ModuleID        string         `json:"module_id" gorm:"type:varchar(36);not null;index"`
	Module          CourseModule   `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Title           string         `json:"title" gorm:"not null"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	ContentType     string         `json:"content_type" gorm:"not null;default:'text'"` // "text", "video", "quiz"
	VideoURL        *string        `json:"video_url,omitempty"`
	OrderIndex      int            `json:"order_index" gorm:"not null;default:0"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

func (l *Lesson) IsQuiz() bool {
	return l.ContentType == ContentTypeQuiz
}
