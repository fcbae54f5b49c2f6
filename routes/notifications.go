package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

// Notifications serves a user's in-app notification feed.
type Notifications struct {
	Store *storage.Store
}

func (r *Notifications) List(ctx iris.Context) {
	user, err := r.Store.GetUser(callerWallet(ctx))
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	list, err := r.Store.ListNotifications(user.ID)
	if err != nil {
		utils.HandleInternalError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": iris.Map{"notifications": list}})
}

func (r *Notifications) MarkRead(ctx iris.Context) {
	user, err := r.Store.GetUser(callerWallet(ctx))
	if err != nil {
		handleStoreError(ctx, err, "User with this wallet address does not exist")
		return
	}

	id := ctx.Params().GetUintDefault("id", 0)
	if err := r.Store.MarkNotificationRead(id, user.ID); err != nil {
		handleStoreError(ctx, err, "Notification does not exist")
		return
	}
	ctx.JSON(iris.Map{"success": true, "message": "Notification marked as read"})
}
