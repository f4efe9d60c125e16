package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description,omitempty" gorm:"type:text"`
	PriceCents   int64          `json:"price_cents" gorm:"not null;default:0"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true"`
	InstructorID *string        `json:"instructor_id,omitempty" gorm:"type:varchar(36);index"`
	Modules      []CourseModule `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// assignID fills an empty primary key with a fresh time-ordered UUID, so ids
// created later sort after earlier ones.
func assignID(id *string) {
	if *id != "" {
		return
	}
	v7, err := uuid.NewV7()
	if err != nil {
		*id = uuid.NewString()
		return
	}
	*id = v7.String()
}
