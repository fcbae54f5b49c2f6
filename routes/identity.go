package routes

import (
	"encoding/json"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Identity serves profile, credential and document endpoints. Every handler
// runs behind the token verifier; the ownership guard restricts reads of
// other wallets' data.
type Identity struct {
	Store *storage.Store
	Blobs *storage.BlobStore
}

// GetProfile returns a user record. Callers may only read their own.
func (r *Identity) GetProfile(ctx iris.Context) {
	caller := callerWallet(ctx)
	wallet := utils.NormalizeWalletAddress(ctx.URLParamDefault("walletAddress", caller))
	if !utils.Authorize(caller, wallet) {
		utils.CreateForbidden(ctx, "You can only access your own profile")
		return
	}

	user, err := r.Store.GetUser(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"user": user}})
}

type UpdateProfileInput struct {
	WalletAddress string          `json:"walletAddress"`
	UserType      string          `json:"userType"`
	ProfileData   json.RawMessage `json:"profileData"`
}

// UpdateProfile applies a partial update to the caller's own record. Profile
// data keys merge over the existing map; omitted fields are untouched.
func (r *Identity) UpdateProfile(ctx iris.Context) {
	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	caller := callerWallet(ctx)
	wallet := caller
	if input.WalletAddress != "" {
		wallet = utils.NormalizeWalletAddress(input.WalletAddress)
	}
	if !utils.Authorize(caller, wallet) {
		utils.CreateForbidden(ctx, "You can only update your own profile")
		return
	}

	patch := storage.UserPatch{}
	if input.UserType != "" {
		userType := models.UserType(input.UserType)
		if !userType.Valid() {
			utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "userType must be individual or business")
			return
		}
		patch.UserType = &userType
	}
	if len(input.ProfileData) > 0 {
		patch.ProfileData = datatypes.JSON(input.ProfileData)
	}
	if patch.UserType == nil && len(patch.ProfileData) == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "nothing to update")
		return
	}

	user, err := r.Store.UpdateUser(wallet, patch)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"user": user}})
}

type AddCredentialInput struct {
	CredentialHash string          `json:"credentialHash" validate:"required"`
	CredentialType string          `json:"credentialType" validate:"required"`
	Metadata       json.RawMessage `json:"metadata"`
}

// AddCredential records a credential owned by the caller.
func (r *Identity) AddCredential(ctx iris.Context) {
	var input AddCredentialInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	credential, err := r.Store.AddCredential(callerWallet(ctx),
		input.CredentialHash, input.CredentialType, datatypes.JSON(input.Metadata))
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"credential": credential}})
}

// ListCredentials returns credentials in insertion order. Own data only.
func (r *Identity) ListCredentials(ctx iris.Context) {
	caller := callerWallet(ctx)
	wallet := utils.NormalizeWalletAddress(ctx.URLParamDefault("walletAddress", caller))
	if !utils.Authorize(caller, wallet) {
		utils.CreateForbidden(ctx, "You can only access your own credentials")
		return
	}

	credentials, err := r.Store.ListCredentials(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"credentials": credentials}})
}

// UploadDocument stores an uploaded file and records it for review. Accepts
// multipart form data with "file" and "documentType" fields.
func (r *Identity) UploadDocument(ctx iris.Context) {
	documentType := ctx.FormValue("documentType")
	if documentType == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "documentType is required")
		return
	}

	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize {
		utils.JSONError(ctx, iris.StatusBadRequest, "file_too_large", "file exceeds the 10MB limit")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if !storage.AllowedMimeType(mimeType) {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_file_type", "Only PDF, JPG, and PNG files are allowed")
		return
	}

	fileName, size, err := r.Blobs.Save(header.Filename, file)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}

	doc, err := r.Store.AddDocument(callerWallet(ctx), models.Document{
		DocumentType: documentType,
		FileName:     fileName,
		OriginalName: header.Filename,
		FileSize:     size,
		MimeType:     mimeType,
	})
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"document": doc}})
}

// ListDocuments returns the caller's uploaded documents.
func (r *Identity) ListDocuments(ctx iris.Context) {
	caller := callerWallet(ctx)
	wallet := utils.NormalizeWalletAddress(ctx.URLParamDefault("walletAddress", caller))
	if !utils.Authorize(caller, wallet) {
		utils.CreateForbidden(ctx, "You can only access your own documents")
		return
	}

	docs, err := r.Store.ListDocuments(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"documents": docs}})
}
