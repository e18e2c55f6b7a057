package models

import (
	"github.com/google/uuid"
)

type Comment struct {
	Model
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;index;not null"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;index;not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE;"`
	Body      string    `json:"body" gorm:"type:text;not null"`
}

func (m Comment) TableName() string {
	return "comments"
}
