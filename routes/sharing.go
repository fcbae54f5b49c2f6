package routes

import (
	"encoding/json"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/services"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Sharing tracks consent records: requester-to-dataOwner grants of data
// access. Only the data owner may grant or revoke.
type Sharing struct {
	Store    *storage.Store
	Notifier *services.NotificationService
}

type CreateConsentInput struct {
	DataOwnerWalletAddress string          `json:"dataOwnerWalletAddress" validate:"required"`
	DataScope              json.RawMessage `json:"dataScope" validate:"required"`
	ExpiresAt              *time.Time      `json:"expiresAt"`
}

// CreateRequest opens a pending consent record from the caller to the data
// owner.
func (r *Sharing) CreateRequest(ctx iris.Context) {
	var input CreateConsentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	record, err := r.Store.CreateConsentRecord(
		callerWallet(ctx),
		utils.NormalizeWalletAddress(input.DataOwnerWalletAddress),
		datatypes.JSON(input.DataScope),
		input.ExpiresAt)
	if err != nil {
		handleStoreError(ctx, err, "Requester or data owner does not exist")
		return
	}

	r.Notifier.ConsentRequested(record)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Data access request created successfully",
		"data":    iris.Map{"consentRecord": record},
	})
}

type ConsentDecisionInput struct {
	ConsentID uint `json:"consentId" validate:"required"`
}

// Grant moves a pending record to granted. Data owner only.
func (r *Sharing) Grant(ctx iris.Context) {
	r.decide(ctx, models.ConsentStatusGranted, "Consent granted successfully")
}

// Revoke moves a record to revoked, regardless of its prior status. Data
// owner only. Revoked is terminal.
func (r *Sharing) Revoke(ctx iris.Context) {
	r.decide(ctx, models.ConsentStatusRevoked, "Consent revoked successfully")
}

func (r *Sharing) decide(ctx iris.Context, status models.ConsentStatus, message string) {
	var input ConsentDecisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	record, err := r.Store.GetConsentRecord(input.ConsentID)
	if err != nil {
		handleStoreError(ctx, err, "Consent record does not exist")
		return
	}

	caller := callerWallet(ctx)
	if !utils.Authorize(caller, record.DataOwner.WalletAddress) {
		utils.CreateForbidden(ctx, "Only the data owner can change this consent")
		return
	}

	before := record.ConsentStatus
	updated, err := r.Store.SetConsentStatus(record.ID, status)
	if err != nil {
		handleStoreError(ctx, err, "Consent record does not exist")
		return
	}

	if actor, actorErr := r.Store.GetUser(caller); actorErr == nil {
		utils.Audit(r.Store, ctx, actor.ID, "consent."+string(status), "consent_record", updated.ID,
			iris.Map{"consentStatus": before}, iris.Map{"consentStatus": updated.ConsentStatus})
	}
	r.Notifier.ConsentDecided(updated)

	ctx.JSON(iris.Map{
		"success": true,
		"message": message,
		"data":    iris.Map{"consentRecord": updated},
	})
}

// ListUserConsents returns the wallet's consent records bucketed by status,
// plus the requests they sent as requester. Own data only.
func (r *Sharing) ListUserConsents(ctx iris.Context) {
	wallet := utils.NormalizeWalletAddress(ctx.Params().Get("walletAddress"))
	if !utils.Authorize(callerWallet(ctx), wallet) {
		utils.CreateForbidden(ctx, "You can only access your own consent records")
		return
	}

	owned, sent, err := r.Store.ListConsentRecords(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	granted := []models.ConsentRecord{}
	pending := []models.ConsentRecord{}
	revoked := []models.ConsentRecord{}
	for _, record := range owned {
		switch record.ConsentStatus {
		case models.ConsentStatusGranted:
			granted = append(granted, record)
		case models.ConsentStatusPending:
			pending = append(pending, record)
		case models.ConsentStatusRevoked:
			revoked = append(revoked, record)
		}
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"grantedConsents": granted,
			"pendingConsents": pending,
			"revokedConsents": revoked,
			"sentRequests":    sent,
		},
	})
}

type CheckPermissionInput struct {
	DataOwnerWalletAddress string `json:"dataOwnerWalletAddress" validate:"required"`
	DataType               string `json:"dataType" validate:"required"`
}

// CheckPermission reports whether the caller currently holds granted,
// unexpired consent covering the data type. A missing record is a false
// result, not an error.
func (r *Sharing) CheckPermission(ctx iris.Context) {
	var input CheckPermissionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hasPermission, record, err := r.Store.CheckPermission(
		callerWallet(ctx),
		utils.NormalizeWalletAddress(input.DataOwnerWalletAddress),
		input.DataType)
	if err != nil {
		handleStoreError(ctx, err, "Requester or data owner does not exist")
		return
	}

	data := iris.Map{"hasPermission": hasPermission}
	if record != nil {
		data["consentRecord"] = iris.Map{
			"id":        record.ID,
			"dataScope": record.DataScope,
			"expiresAt": record.ExpiresAt,
		}
	}
	ctx.JSON(iris.Map{"success": true, "data": data})
}
