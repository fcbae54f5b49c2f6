package storage

import (
	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// RequestPatch carries the updatable fields of a verification request. Nil
// fields are left untouched.
type RequestPatch struct {
	Status   *models.RequestStatus
	Metadata datatypes.JSON
}

// CreateVerificationRequest opens a pending request from requester to target.
// Both parties must exist.
func (s *Store) CreateVerificationRequest(requesterWallet, targetWallet, requestType string, metadata datatypes.JSON) (*models.VerificationRequest, error) {
	requester, err := s.GetUser(requesterWallet)
	if err != nil {
		return nil, err
	}
	target, err := s.GetUser(targetWallet)
	if err != nil {
		return nil, err
	}

	request := models.VerificationRequest{
		RequesterID: requester.ID,
		TargetID:    target.ID,
		RequestType: requestType,
		Status:      models.RequestStatusPending,
		Metadata:    metadata,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}
	request.Requester = *requester
	request.Target = *target
	return &request, nil
}

// GetVerificationRequest loads a request with both parties attached.
func (s *Store) GetVerificationRequest(id uint) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	err := s.db.Preload("Requester").Preload("Target").First(&request, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

// UpdateVerificationRequest applies a partial update to status and/or
// metadata. The party check belongs to the caller; the store only enforces
// that a provided status is a valid one.
func (s *Store) UpdateVerificationRequest(id uint, patch RequestPatch) (*models.VerificationRequest, error) {
	request, err := s.GetVerificationRequest(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *patch.Status
	}
	if len(patch.Metadata) > 0 {
		updates["metadata"] = patch.Metadata
	}

	if len(updates) == 0 {
		return request, nil
	}
	if err := s.db.Model(&models.VerificationRequest{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetVerificationRequest(id)
}

// ListVerificationRequests returns the requests a user sent and the requests
// aimed at them, each with the opposite party preloaded.
func (s *Store) ListVerificationRequests(walletAddress string) (sent, received []models.VerificationRequest, err error) {
	user, err := s.GetUser(walletAddress)
	if err != nil {
		return nil, nil, err
	}

	if err = s.db.Preload("Target").Where("requester_id = ?", user.ID).Order("id ASC").Find(&sent).Error; err != nil {
		return nil, nil, err
	}
	if err = s.db.Preload("Requester").Where("target_id = ?", user.ID).Order("id ASC").Find(&received).Error; err != nil {
		return nil, nil, err
	}
	return sent, received, nil
}
