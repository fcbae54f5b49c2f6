package utils

import (
	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// AdminOnlyMiddleware stops any caller whose session role is not admin. It
// runs after the token verifier.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := Session(ctx)
	if claims == nil {
		CreateUnauthorized(ctx, "login required")
		return
	}
	if claims.Role != string(models.UserRoleAdmin) {
		CreateForbidden(ctx, "admin access required")
		return
	}
	ctx.Next()
}
