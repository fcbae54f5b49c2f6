package utils

import (
	"encoding/json"
	"log"
	"net"

	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
)

// Audit appends an audit row for a status-changing action. Audit failures are
// logged, never surfaced; the action itself already succeeded.
func Audit(store *storage.Store, ctx iris.Context, actorID uint, action, resourceType string, resourceID uint, before, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	entry := models.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    clientIP(ctx),
	}
	if err := store.AddAuditLog(entry); err != nil {
		log.Printf("audit write failed: %v", err)
	}
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
