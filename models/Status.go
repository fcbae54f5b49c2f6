package models

// Status fields were free-form strings in earlier iterations; they are closed
// types now so an invalid value is rejected before it reaches the database.

type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeBusiness   UserType = "business"
)

func (t UserType) Valid() bool {
	return t == UserTypeIndividual || t == UserTypeBusiness
}

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusVerified  UserStatus = "verified"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusPending || s == UserStatusVerified || s == UserStatusSuspended
}

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type CredentialStatus string

const (
	CredentialStatusActive  CredentialStatus = "active"
	CredentialStatusRevoked CredentialStatus = "revoked"
)

func (s CredentialStatus) Valid() bool {
	return s == CredentialStatusActive || s == CredentialStatusRevoked
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected
}

type ConsentStatus string

const (
	ConsentStatusPending ConsentStatus = "pending"
	ConsentStatusGranted ConsentStatus = "granted"
	ConsentStatusRevoked ConsentStatus = "revoked"
)

func (s ConsentStatus) Valid() bool {
	return s == ConsentStatusPending || s == ConsentStatusGranted || s == ConsentStatusRevoked
}

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	return s == DocumentStatusPending || s == DocumentStatusVerified || s == DocumentStatusRejected
}
