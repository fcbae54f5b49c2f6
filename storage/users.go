package storage

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// UserPatch carries the fields of a partial user update. Nil fields are left
// untouched; ProfileData is merged key by key into the existing profile.
type UserPatch struct {
	UserType    *models.UserType
	Status      *models.UserStatus
	ProfileData datatypes.JSON
}

// CreateUser registers a wallet address. The address must not be registered
// already; a duplicate is ErrConflict.
func (s *Store) CreateUser(walletAddress string, profileData datatypes.JSON, userType models.UserType) (*models.User, error) {
	if userType == "" {
		userType = models.UserTypeIndividual
	}
	if !userType.Valid() {
		return nil, ErrInvalidStatus
	}

	var existing models.User
	err := s.db.Where("wallet_address = ?", walletAddress).First(&existing).Error
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		WalletAddress: walletAddress,
		UserType:      userType,
		Status:        models.UserStatusPending,
		Role:          models.UserRoleUser,
		ProfileData:   profileData,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(walletAddress string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserWithRelations loads a user together with credentials and both sides
// of their verification requests and consent records.
func (s *Store) GetUserWithRelations(walletAddress string) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("Credentials").
		Preload("SentRequests").
		Preload("ReceivedRequests").
		Preload("ConsentRecords").
		Preload("ConsentRequests").
		Preload("Documents").
		Where("wallet_address = ?", walletAddress).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUser applies a partial update. Fields omitted from the patch keep
// their current values.
func (s *Store) UpdateUser(walletAddress string, patch UserPatch) (*models.User, error) {
	user, err := s.GetUser(walletAddress)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.UserType != nil {
		if !patch.UserType.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["user_type"] = *patch.UserType
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *patch.Status
	}
	if len(patch.ProfileData) > 0 {
		merged, mergeErr := mergeJSON(user.ProfileData, patch.ProfileData)
		if mergeErr != nil {
			return nil, mergeErr
		}
		updates["profile_data"] = datatypes.JSON(merged)
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users, newest first, with the total count.
func (s *Store) ListUsers(page, perPage int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// AddCredential creates an active credential owned by the given wallet. The
// owner must exist.
func (s *Store) AddCredential(ownerWallet, hash, credentialType string, metadata datatypes.JSON) (*models.Credential, error) {
	owner, err := s.GetUser(ownerWallet)
	if err != nil {
		return nil, err
	}

	credential := models.Credential{
		OwnerID:        owner.ID,
		CredentialHash: hash,
		CredentialType: credentialType,
		Metadata:       metadata,
		Status:         models.CredentialStatusActive,
	}
	if err := s.db.Create(&credential).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// ListCredentials returns the owner's credentials in insertion order.
func (s *Store) ListCredentials(ownerWallet string) ([]models.Credential, error) {
	owner, err := s.GetUser(ownerWallet)
	if err != nil {
		return nil, err
	}

	var credentials []models.Credential
	if err := s.db.Where("owner_id = ?", owner.ID).Order("id ASC").Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}
