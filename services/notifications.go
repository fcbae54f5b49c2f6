package services

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
)

// NotificationService creates the in-app notifications that accompany
// verification and consent activity. Notification failures are logged and
// swallowed; they never fail the request that triggered them.
type NotificationService struct {
	store *storage.Store
}

func NewNotificationService(store *storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (ns *NotificationService) notify(userID uint, notifType, title, body string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("notification payload for user %d: %v", userID, err)
		return
	}
	if _, err := ns.store.AddNotification(userID, notifType, title, body, datatypes.JSON(payload)); err != nil {
		log.Printf("notification for user %d: %v", userID, err)
	}
}

// VerificationRequested tells the target a new request is waiting on them.
func (ns *NotificationService) VerificationRequested(req *models.VerificationRequest) {
	ns.notify(req.TargetID, "verification_request",
		"New verification request",
		fmt.Sprintf("%s asked you to verify a %s claim", req.Requester.WalletAddress, req.RequestType),
		map[string]interface{}{"requestID": req.ID, "requestType": req.RequestType})
}

// VerificationDecided tells the requester the request reached a decision.
func (ns *NotificationService) VerificationDecided(req *models.VerificationRequest) {
	ns.notify(req.RequesterID, "verification_decided",
		"Verification request "+string(req.Status),
		fmt.Sprintf("Your %s request is now %s", req.RequestType, req.Status),
		map[string]interface{}{"requestID": req.ID, "status": req.Status})
}

// ConsentRequested tells the data owner someone asked for access.
func (ns *NotificationService) ConsentRequested(rec *models.ConsentRecord) {
	ns.notify(rec.DataOwnerID, "consent_request",
		"New data access request",
		fmt.Sprintf("%s requested access to your data", rec.Requester.WalletAddress),
		map[string]interface{}{"consentID": rec.ID})
}

// ConsentDecided tells the requester their access was granted or revoked.
func (ns *NotificationService) ConsentDecided(rec *models.ConsentRecord) {
	ns.notify(rec.RequesterID, "consent_"+string(rec.ConsentStatus),
		"Consent "+string(rec.ConsentStatus),
		fmt.Sprintf("Access to %s's data is now %s", rec.DataOwner.WalletAddress, rec.ConsentStatus),
		map[string]interface{}{"consentID": rec.ID, "status": rec.ConsentStatus})
}

// DocumentReviewed tells the document owner the review outcome.
func (ns *NotificationService) DocumentReviewed(doc *models.Document) {
	ns.notify(doc.UserID, "document_reviewed",
		"Document "+string(doc.Status),
		fmt.Sprintf("Your %s document was %s", doc.DocumentType, doc.Status),
		map[string]interface{}{"documentID": doc.ID, "status": doc.Status})
}
