package models

import (
	"time"
)

type Document struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"userID" gorm:"not null;index"`
	DocumentType string         `json:"documentType" gorm:"size:50;not null"`
	FileName     string         `json:"fileName" gorm:"size:512;not null"`
	OriginalName string         `json:"originalName" gorm:"size:512"`
	FileSize     int64          `json:"fileSize"`
	MimeType     string         `json:"mimeType" gorm:"size:100"`
	Status       DocumentStatus `json:"status" gorm:"size:20;default:'pending';index"`
	ReviewedBy   *uint          `json:"reviewedBy" gorm:"index"`
	ReviewedAt   *time.Time     `json:"reviewedAt"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
