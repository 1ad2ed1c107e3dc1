package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript is the archived form of a finished session: the collected
// profile, the final documents and the full chat history.
type Transcript struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId   string    `gorm:"index"`
	UserId      string    `gorm:"index"`
	Stage       string
	Profile     datatypes.JSON
	Vacancy     string
	Style       string
	Language    string
	Resume      string
	CoverLetter string
	Revisions   int
	History     datatypes.JSON
	CreatedAt   time.Time
}
