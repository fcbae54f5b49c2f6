package routes

import (
	"encoding/json"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/services"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Verification tracks requester-to-target verification requests. Only the two
// parties on a request may read or update it.
type Verification struct {
	Store    *storage.Store
	Notifier *services.NotificationService
}

type CreateRequestInput struct {
	TargetWalletAddress string          `json:"targetWalletAddress" validate:"required"`
	RequestType         string          `json:"requestType" validate:"required"`
	Metadata            json.RawMessage `json:"metadata"`
}

// CreateRequest opens a pending request from the caller to the target.
func (r *Verification) CreateRequest(ctx iris.Context) {
	var input CreateRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	request, err := r.Store.CreateVerificationRequest(
		callerWallet(ctx),
		utils.NormalizeWalletAddress(input.TargetWalletAddress),
		input.RequestType,
		datatypes.JSON(input.Metadata))
	if err != nil {
		handleStoreError(ctx, err, "Requester or target user does not exist")
		return
	}

	r.Notifier.VerificationRequested(request)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Verification request created successfully",
		"data":    iris.Map{"verificationRequest": request},
	})
}

// GetRequest returns a request to one of its parties.
func (r *Verification) GetRequest(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	request, err := r.Store.GetVerificationRequest(id)
	if err != nil {
		handleStoreError(ctx, err, "Verification request does not exist")
		return
	}

	if !utils.AuthorizeAny(callerWallet(ctx), request.Requester.WalletAddress, request.Target.WalletAddress) {
		utils.CreateForbidden(ctx, "You are not authorized to view this verification request")
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"verificationRequest": request}})
}

type UpdateRequestInput struct {
	Status   string          `json:"status"`
	Metadata json.RawMessage `json:"metadata"`
}

// UpdateRequest lets either party patch the status and/or metadata. Omitted
// fields keep their values.
func (r *Verification) UpdateRequest(ctx iris.Context) {
	var input UpdateRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	id := ctx.Params().GetUintDefault("id", 0)
	request, err := r.Store.GetVerificationRequest(id)
	if err != nil {
		handleStoreError(ctx, err, "Verification request does not exist")
		return
	}

	caller := callerWallet(ctx)
	if !utils.AuthorizeAny(caller, request.Requester.WalletAddress, request.Target.WalletAddress) {
		utils.CreateForbidden(ctx, "You are not authorized to update this verification request")
		return
	}

	patch := storage.RequestPatch{Metadata: datatypes.JSON(input.Metadata)}
	if input.Status != "" {
		status := models.RequestStatus(input.Status)
		if !status.Valid() {
			utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "status must be pending, approved or rejected")
			return
		}
		patch.Status = &status
	}

	before := request.Status
	updated, err := r.Store.UpdateVerificationRequest(id, patch)
	if err != nil {
		handleStoreError(ctx, err, "Verification request does not exist")
		return
	}

	if patch.Status != nil && *patch.Status != before {
		if actor, actorErr := r.Store.GetUser(caller); actorErr == nil {
			utils.Audit(r.Store, ctx, actor.ID, "verification.update", "verification_request", updated.ID,
				iris.Map{"status": before}, iris.Map{"status": updated.Status})
		}
		if updated.Status != models.RequestStatusPending {
			r.Notifier.VerificationDecided(updated)
		}
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Verification request updated successfully",
		"data":    iris.Map{"verificationRequest": updated},
	})
}

// ListUserRequests returns the wallet's sent and received requests. Callers
// may only list their own.
func (r *Verification) ListUserRequests(ctx iris.Context) {
	wallet := utils.NormalizeWalletAddress(ctx.Params().Get("walletAddress"))
	if !utils.Authorize(callerWallet(ctx), wallet) {
		utils.CreateForbidden(ctx, "You can only access your own verification requests")
		return
	}

	sent, received, err := r.Store.ListVerificationRequests(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"sentRequests":     sent,
			"receivedRequests": received,
		},
	})
}
