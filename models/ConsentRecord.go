package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConsentRecord is a directional grant of data access from the data owner to
// the requester. DataScope is an open JSON object whose "dataTypes" array
// lists the data-type tags the grant covers. A nil ExpiresAt never expires.
type ConsentRecord struct {
	gorm.Model
	RequesterID   uint           `json:"requesterID" gorm:"not null;index"`
	DataOwnerID   uint           `json:"dataOwnerID" gorm:"not null;index"`
	DataScope     datatypes.JSON `json:"dataScope"`
	ConsentStatus ConsentStatus  `json:"consentStatus" gorm:"size:20;default:'pending';index"`
	ExpiresAt     *time.Time     `json:"expiresAt"`

	Requester User `json:"requester,omitempty" gorm:"foreignKey:RequesterID;references:ID"`
	DataOwner User `json:"dataOwner,omitempty" gorm:"foreignKey:DataOwnerID;references:ID"`
}

// Expired reports whether the record's expiry has passed at the given time.
func (c *ConsentRecord) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
