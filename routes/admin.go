package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/services"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Admin serves the review surface: user listing, the document review queue
// and the audit trail. Role-gated by AdminOnlyMiddleware.
type Admin struct {
	Store    *storage.Store
	Notifier *services.NotificationService
}

func (r *Admin) ListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)

	users, total, err := r.Store.ListUsers(page, perPage)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

func (r *Admin) ListDocuments(ctx iris.Context) {
	status := models.DocumentStatus(ctx.URLParamDefault("status", ""))
	if status != "" && !status.Valid() {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "status must be pending, verified or rejected")
		return
	}

	docs, err := r.Store.ListDocumentsByStatus(status)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"documents": docs}})
}

type ReviewDocumentInput struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// ReviewDocument records the reviewer's decision. Approval promotes the
// document owner to verified.
func (r *Admin) ReviewDocument(ctx iris.Context) {
	var input ReviewDocumentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	status := models.DocumentStatus(input.Status)
	if status != models.DocumentStatusVerified && status != models.DocumentStatusRejected {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "status must be verified or rejected")
		return
	}

	reviewer, err := r.Store.GetUser(callerWallet(ctx))
	if err != nil {
		handleStoreError(ctx, err, "Reviewer account does not exist")
		return
	}

	id := ctx.Params().GetUintDefault("id", 0)
	doc, err := r.Store.ReviewDocument(id, reviewer.ID, status, input.Notes)
	if err != nil {
		handleStoreError(ctx, err, "Document does not exist")
		return
	}

	utils.Audit(r.Store, ctx, reviewer.ID, "document.review", "document", doc.ID,
		iris.Map{"status": models.DocumentStatusPending}, iris.Map{"status": doc.Status, "notes": doc.Notes})
	r.Notifier.DocumentReviewed(doc)

	ctx.JSON(iris.Map{"success": true, "message": "Document reviewed", "data": iris.Map{"document": doc}})
}

func (r *Admin) ListAuditLogs(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 100)
	logs, err := r.Store.ListAuditLogs(limit)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"auditLogs": logs}})
}
