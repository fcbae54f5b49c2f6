package storage

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// CreateConsentRecord opens a pending consent request from requester to data
// owner. Both parties must exist.
func (s *Store) CreateConsentRecord(requesterWallet, dataOwnerWallet string, dataScope datatypes.JSON, expiresAt *time.Time) (*models.ConsentRecord, error) {
	requester, err := s.GetUser(requesterWallet)
	if err != nil {
		return nil, err
	}
	dataOwner, err := s.GetUser(dataOwnerWallet)
	if err != nil {
		return nil, err
	}

	record := models.ConsentRecord{
		RequesterID:   requester.ID,
		DataOwnerID:   dataOwner.ID,
		DataScope:     dataScope,
		ConsentStatus: models.ConsentStatusPending,
		ExpiresAt:     expiresAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	record.Requester = *requester
	record.DataOwner = *dataOwner
	return &record, nil
}

// GetConsentRecord loads a record with both parties attached.
func (s *Store) GetConsentRecord(id uint) (*models.ConsentRecord, error) {
	var record models.ConsentRecord
	err := s.db.Preload("Requester").Preload("DataOwner").First(&record, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// SetConsentStatus moves a record through the consent state machine. Granting
// is only legal from pending; revoking is accepted from any prior status and
// is terminal.
func (s *Store) SetConsentStatus(id uint, status models.ConsentStatus) (*models.ConsentRecord, error) {
	record, err := s.GetConsentRecord(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.ConsentStatusGranted:
		if record.ConsentStatus != models.ConsentStatusPending {
			return nil, ErrInvalidStatus
		}
	case models.ConsentStatusRevoked:
		// always allowed
	default:
		return nil, ErrInvalidStatus
	}

	if err := s.db.Model(&models.ConsentRecord{}).Where("id = ?", id).
		Update("consent_status", status).Error; err != nil {
		return nil, err
	}
	record.ConsentStatus = status
	return record, nil
}

// ListConsentRecords returns the records where the user is the data owner and
// the requests they sent as requester.
func (s *Store) ListConsentRecords(walletAddress string) (owned, sent []models.ConsentRecord, err error) {
	user, err := s.GetUser(walletAddress)
	if err != nil {
		return nil, nil, err
	}

	if err = s.db.Preload("Requester").Where("data_owner_id = ?", user.ID).Order("id ASC").Find(&owned).Error; err != nil {
		return nil, nil, err
	}
	if err = s.db.Preload("DataOwner").Where("requester_id = ?", user.ID).Order("id ASC").Find(&sent).Error; err != nil {
		return nil, nil, err
	}
	return owned, sent, nil
}

// consentScope is the fixed portion of a DataScope object. Additional fields
// are carried opaquely.
type consentScope struct {
	DataTypes []string `json:"dataTypes"`
}

// CheckPermission reports whether any granted, unexpired consent record from
// dataOwner to requester covers the given data type. Both parties must exist;
// the absence of a matching record is a false result, not an error. The scope
// check runs in Go so it works identically across SQL dialects.
func (s *Store) CheckPermission(requesterWallet, dataOwnerWallet, dataType string) (bool, *models.ConsentRecord, error) {
	requester, err := s.GetUser(requesterWallet)
	if err != nil {
		return false, nil, err
	}
	dataOwner, err := s.GetUser(dataOwnerWallet)
	if err != nil {
		return false, nil, err
	}

	var candidates []models.ConsentRecord
	err = s.db.Where("requester_id = ? AND data_owner_id = ? AND consent_status = ?",
		requester.ID, dataOwner.ID, models.ConsentStatusGranted).
		Find(&candidates).Error
	if err != nil {
		return false, nil, err
	}

	now := time.Now()
	for i := range candidates {
		record := &candidates[i]
		if record.Expired(now) {
			continue
		}
		var scope consentScope
		if len(record.DataScope) == 0 {
			continue
		}
		if err := json.Unmarshal(record.DataScope, &scope); err != nil {
			continue
		}
		for _, t := range scope.DataTypes {
			if t == dataType {
				return true, record, nil
			}
		}
	}
	return false, nil, nil
}
