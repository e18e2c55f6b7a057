// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package models

import (
	"github.com/google/uuid"
)

type NotificationCategory string

const (
	NotificationCategoryInfo    NotificationCategory = "info"
	NotificationCategorySuccess NotificationCategory = "success"
	NotificationCategoryWarning NotificationCategory = "warning"
)

// Notification is only ever created by the dispatcher as a side effect of
// another entity's state transition. The persisted row is the source of
// truth - the real time push is a latency optimization.
type Notification struct {
	Model
	RecipientID uuid.UUID `json:"recipientId" gorm:"type:uuid;index;not null"`
	Recipient   User      `json:"-" gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE;"`

	Message  string               `json:"message" gorm:"type:text;not null"`
	Category NotificationCategory `json:"category" gorm:"type:text;default:'info';not null"`
	Read     bool                 `json:"read" gorm:"default:false;index"`

	// optional reference to the entity which triggered the notification
	RelatedType *string    `json:"relatedType,omitempty" gorm:"type:text"`
	RelatedID   *uuid.UUID `json:"relatedId,omitempty" gorm:"type:uuid"`
}

func (m Notification) TableName() string {
	return "notifications"
}
