package routes

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// callerWallet returns the authenticated caller's wallet address, or "" when
// the route is reached without a verified token.
func callerWallet(ctx iris.Context) string {
	if claims := utils.Session(ctx); claims != nil {
		return utils.NormalizeWalletAddress(claims.WalletAddress)
	}
	return ""
}

// handleStoreError maps store sentinels onto the error taxonomy. Anything
// unrecognized is internal.
func handleStoreError(ctx iris.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.CreateNotFound(ctx, notFoundMessage)
	case errors.Is(err, storage.ErrConflict):
		utils.CreateConflict(ctx, "record already exists")
	case errors.Is(err, storage.ErrInvalidStatus):
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_status", "requested status change is not allowed")
	default:
		utils.HandleInternalError(ctx, err)
	}
}
