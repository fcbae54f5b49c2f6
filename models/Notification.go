package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"userID" gorm:"not null;index"`
	Type      string         `json:"type" gorm:"size:64;index"`
	Title     string         `json:"title" gorm:"size:256"`
	Body      string         `json:"body" gorm:"type:text"`
	Data      datatypes.JSON `json:"data"`
	Read      bool           `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
