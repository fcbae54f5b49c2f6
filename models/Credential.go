package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Credential anchors an externally issued credential to its owner by hash.
// The hash is immutable once the record is created.
type Credential struct {
	gorm.Model
	OwnerID        uint             `json:"ownerID" gorm:"not null;index"`
	CredentialHash string           `json:"credentialHash" gorm:"size:256;not null"`
	CredentialType string           `json:"credentialType" gorm:"size:64;not null"`
	Metadata       datatypes.JSON   `json:"metadata"`
	Status         CredentialStatus `json:"status" gorm:"size:20;default:'active'"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
