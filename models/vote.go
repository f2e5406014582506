package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote records that an IP has voted for a project. (ProjectID, IP) is unique.
type Vote struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_vote_project_ip,priority:1"`
	IP        string    `json:"ip" db:"ip" gorm:"type:text;not null;uniqueIndex:idx_vote_project_ip,priority:2"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}
