package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Track is the top level of the catalog, e.g. "Entrepreneurship".
type Track struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	OrderIndex  int       `json:"order_index" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	TrackID     string    `json:"track_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	OrderIndex  int       `json:"order_index" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

type Lesson struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ModuleID   string    `json:"module_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text"`
	XPReward   int       `json:"xp_reward" gorm:"not null;default:10"`
	MediaURL   string    `json:"media_url"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:LessonID"`
}

// Exercise is one graded item of a lesson. CorrectAnswer separates the blanks
// of a fill_blank exercise with ";".
type Exercise struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	LessonID      string         `json:"lesson_id" gorm:"not null;index"`
	Type          string         `json:"type" gorm:"not null"`
	Question      string         `json:"question" gorm:"type:text;not null"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	OrderIndex    int            `json:"order_index" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// OptionList decodes Options. Malformed or empty values yield nil.
func (e *Exercise) OptionList() []string {
	if len(e.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(e.Options, &opts); err != nil {
		return nil
	}
	return opts
}

func (e *Exercise) SetOptions(opts []string) {
	if len(opts) == 0 {
		e.Options = nil
		return
	}
	b, _ := json.Marshal(opts)
	e.Options = datatypes.JSON(b)
}
