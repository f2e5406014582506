package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a community submission. CreatedByIP never leaves the admin view.
type Project struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title            string    `json:"title" db:"title" gorm:"type:text;not null"`
	ShortDescription string    `json:"shortDescription" db:"short_description" gorm:"type:text;not null"`
	FullDescription  string    `json:"fullDescription" db:"full_description" gorm:"type:text;not null"`
	Social           string    `json:"social" db:"social" gorm:"type:text;not null;default:''"`
	Image            *string   `json:"image" db:"image" gorm:"type:text"`
	Votes            int       `json:"votes" db:"votes" gorm:"not null;default:0;check:votes >= 0"`
	Nominated        bool      `json:"nominated" db:"nominated" gorm:"not null;default:false"`
	Approved         bool      `json:"approved" db:"approved" gorm:"not null;default:false;index:idx_project_approved_created,priority:1"`
	EditCount        int       `json:"editCount" db:"edit_count" gorm:"not null;default:0;check:edit_count >= 0"`
	CreatedByIP      string    `json:"-" db:"created_by_ip" gorm:"type:text;not null;index:idx_project_created_by_ip"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_project_approved_created,priority:2,sort:desc"`

	VoteRecords []Vote `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// AdminProject is the moderation view of a project.
type AdminProject struct {
	Project
	CreatedByIP string `json:"createdByIP"`
}

func (p Project) AdminView() AdminProject {
	return AdminProject{Project: p, CreatedByIP: p.CreatedByIP}
}

// Fields holds the caller supplied content of a submission or edit.
type Fields struct {
	Title            string
	ShortDescription string
	FullDescription  string
	Social           string
	// Description is the legacy single description, used for whichever of the
	// specific descriptions is absent.
	Description string
}

// Resolve applies the legacy description fallback.
func (f Fields) Resolve() (title, short, full string) {
	short = f.ShortDescription
	if short == "" {
		short = f.Description
	}
	full = f.FullDescription
	if full == "" {
		full = f.Description
	}
	return f.Title, short, full
}
