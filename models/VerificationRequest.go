package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VerificationRequest is a directional edge: the requester asks the target to
// attest to (or about) an identity claim. Only the two parties may read or
// update it.
type VerificationRequest struct {
	gorm.Model
	RequesterID uint           `json:"requesterID" gorm:"not null;index"`
	TargetID    uint           `json:"targetID" gorm:"not null;index"`
	RequestType string         `json:"requestType" gorm:"size:64;not null"`
	Status      RequestStatus  `json:"status" gorm:"size:20;default:'pending';index"`
	Metadata    datatypes.JSON `json:"metadata"`

	Requester User `json:"requester,omitempty" gorm:"foreignKey:RequesterID;references:ID"`
	Target    User `json:"target,omitempty" gorm:"foreignKey:TargetID;references:ID"`
}
