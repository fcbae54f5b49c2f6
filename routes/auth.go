package routes

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Auth handles wallet login: challenge issuance, signature verification and
// session token minting. A user record is created on first connect.
type Auth struct {
	Store  *storage.Store
	Nonces *storage.NonceStore
	Tokens *utils.TokenService
}

type ChallengeInput struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
}

// Challenge issues a one-time message for the wallet to sign. The embedded
// nonce is single use and expires on its own.
func (r *Auth) Challenge(ctx iris.Context) {
	var input ChallengeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	wallet := utils.NormalizeWalletAddress(input.WalletAddress)
	if _, err := utils.ParseWalletAddress(wallet); err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_wallet", "Please provide a valid wallet address")
		return
	}

	nonce := utils.NewChallengeNonce()
	if nonce == "" {
		utils.HandleInternalError(ctx, errors.New("could not generate nonce"))
		return
	}
	if err := r.Nonces.Put(ctx.Request().Context(), nonce, wallet); err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"message": utils.BuildChallengeMessage(wallet, nonce),
			"nonce":   nonce,
		},
	})
}

type ConnectWalletInput struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
	Signature     string `json:"signature" validate:"required"`
	Message       string `json:"message" validate:"required"`
}

// ConnectWallet verifies a signed challenge, creates the user on first
// connect and returns a session token.
func (r *Auth) ConnectWallet(ctx iris.Context) {
	var input ConnectWalletInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	wallet := utils.NormalizeWalletAddress(input.WalletAddress)
	if _, err := utils.ParseWalletAddress(wallet); err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_wallet", "Please provide a valid wallet address")
		return
	}

	nonce := utils.NonceFromMessage(input.Message)
	if nonce == "" {
		utils.CreateUnauthorized(ctx, "challenge message is missing its nonce")
		return
	}
	ok, err := r.Nonces.Consume(ctx.Request().Context(), nonce, wallet)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}
	if !ok {
		utils.CreateUnauthorized(ctx, "challenge expired or already used")
		return
	}

	if err := utils.VerifyWalletSignature(wallet, input.Message, input.Signature); err != nil {
		utils.CreateUnauthorized(ctx, "signature does not match wallet")
		return
	}

	user, err := r.Store.GetUser(wallet)
	if errors.Is(err, storage.ErrNotFound) {
		profile, _ := json.Marshal(map[string]interface{}{
			"walletAddress": wallet,
			"createdAt":     time.Now().UTC().Format(time.RFC3339),
		})
		user, err = r.Store.CreateUser(wallet, datatypes.JSON(profile), models.UserTypeIndividual)
	}
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}

	token, err := r.Tokens.Issue(user.WalletAddress, user.Role)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Wallet connected successfully",
		"data": iris.Map{
			"user":  user,
			"token": token,
		},
	})
}

type VerifySignatureInput struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
	Signature     string `json:"signature" validate:"required"`
	Message       string `json:"message" validate:"required"`
}

// VerifySignature is a stateless signature check, usable without a session.
func (r *Auth) VerifySignature(ctx iris.Context) {
	var input VerifySignatureInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := utils.VerifyWalletSignature(input.WalletAddress, input.Message, input.Signature); err != nil {
		if errors.Is(err, utils.ErrInvalidWalletAddress) {
			utils.JSONError(ctx, iris.StatusBadRequest, "invalid_wallet", "Please provide a valid wallet address")
			return
		}
		utils.CreateUnauthorized(ctx, "signature does not match wallet")
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Signature verified successfully"})
}

// Me returns the caller's user record with credentials, verification requests
// and consent records attached.
func (r *Auth) Me(ctx iris.Context) {
	wallet := callerWallet(ctx)
	if wallet == "" {
		utils.CreateUnauthorized(ctx, "login required")
		return
	}

	user, err := r.Store.GetUserWithRelations(wallet)
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"user": user}})
}
