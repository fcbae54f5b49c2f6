package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	WalletAddress string         `json:"walletAddress" gorm:"size:64;uniqueIndex;not null"`
	UserType      UserType       `json:"userType" gorm:"size:20;default:'individual'"`
	Status        UserStatus     `json:"status" gorm:"size:20;default:'pending';index"`
	Role          UserRole       `json:"role" gorm:"size:20;default:'user'"`
	ProfileData   datatypes.JSON `json:"profileData"`

	// Relationships
	Credentials      []Credential          `json:"credentials,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	SentRequests     []VerificationRequest `json:"verificationRequests,omitempty" gorm:"foreignKey:RequesterID;references:ID"`
	ReceivedRequests []VerificationRequest `json:"verificationTargets,omitempty" gorm:"foreignKey:TargetID;references:ID"`
	ConsentRecords   []ConsentRecord       `json:"consentRecords,omitempty" gorm:"foreignKey:DataOwnerID;references:ID"`
	ConsentRequests  []ConsentRecord       `json:"consentRequests,omitempty" gorm:"foreignKey:RequesterID;references:ID"`
	Documents        []Document            `json:"documents,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
