package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func mustCreateUser(t *testing.T, s *Store, wallet string) *models.User {
	t.Helper()
	user, err := s.CreateUser(wallet, nil, models.UserTypeIndividual)
	if err != nil {
		t.Fatalf("create user %s: %v", wallet, err)
	}
	return user
}

func TestCreateUserConflict(t *testing.T) {
	s := newTestStore(t)

	user := mustCreateUser(t, s, "Awallet")
	if user.Status != models.UserStatusPending {
		t.Fatalf("expected pending status, got %s", user.Status)
	}
	if user.UserType != models.UserTypeIndividual {
		t.Fatalf("expected individual type, got %s", user.UserType)
	}

	if _, err := s.CreateUser("Awallet", nil, models.UserTypeIndividual); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate wallet, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserPartialPatch(t *testing.T) {
	s := newTestStore(t)

	profile, _ := json.Marshal(map[string]string{"name": "Ada", "city": "London"})
	if _, err := s.CreateUser("Awallet", datatypes.JSON(profile), models.UserTypeBusiness); err != nil {
		t.Fatalf("create user: %v", err)
	}

	status := models.UserStatusVerified
	if _, err := s.UpdateUser("Awallet", UserPatch{Status: &status}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	user, err := s.GetUser("Awallet")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Status != models.UserStatusVerified {
		t.Fatalf("expected verified status, got %s", user.Status)
	}
	if user.UserType != models.UserTypeBusiness {
		t.Fatalf("expected userType untouched, got %s", user.UserType)
	}

	var got map[string]string
	if err := json.Unmarshal(user.ProfileData, &got); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if got["name"] != "Ada" || got["city"] != "London" {
		t.Fatalf("expected profile untouched, got %v", got)
	}

	patch, _ := json.Marshal(map[string]string{"city": "Paris"})
	if _, err := s.UpdateUser("Awallet", UserPatch{ProfileData: datatypes.JSON(patch)}); err != nil {
		t.Fatalf("patch profile: %v", err)
	}
	user, _ = s.GetUser("Awallet")
	got = nil
	if err := json.Unmarshal(user.ProfileData, &got); err != nil {
		t.Fatalf("unmarshal merged profile: %v", err)
	}
	if got["city"] != "Paris" || got["name"] != "Ada" {
		t.Fatalf("expected merged profile with name kept, got %v", got)
	}

	if _, err := s.UpdateUser("missing", UserPatch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, "Awallet")

	meta, _ := json.Marshal(map[string]string{"issuer": "acme"})
	created, err := s.AddCredential("Awallet", "abc123", "Professional License", datatypes.JSON(meta))
	if err != nil {
		t.Fatalf("add credential: %v", err)
	}
	if created.Status != models.CredentialStatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}

	if _, err := s.AddCredential("Awallet", "def456", "Certificate", nil); err != nil {
		t.Fatalf("add second credential: %v", err)
	}

	list, err := s.ListCredentials("Awallet")
	if err != nil {
		t.Fatalf("list credentials: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(list))
	}
	if list[0].CredentialHash != "abc123" || list[1].CredentialHash != "def456" {
		t.Fatalf("expected insertion order, got %s then %s", list[0].CredentialHash, list[1].CredentialHash)
	}
	if list[0].CredentialType != "Professional License" {
		t.Fatalf("expected type preserved, got %s", list[0].CredentialType)
	}
	var gotMeta map[string]string
	if err := json.Unmarshal(list[0].Metadata, &gotMeta); err != nil || gotMeta["issuer"] != "acme" {
		t.Fatalf("expected metadata preserved, got %s (%v)", list[0].Metadata, err)
	}

	if _, err := s.AddCredential("missing", "xyz", "Certificate", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}
}

func TestVerificationRequestFlow(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, "Awallet")
	mustCreateUser(t, s, "Bwallet")

	request, err := s.CreateVerificationRequest("Awallet", "Bwallet", "kyc", nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if request.Status != models.RequestStatusPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}
	if request.Requester.WalletAddress != "Awallet" || request.Target.WalletAddress != "Bwallet" {
		t.Fatal("expected both parties attached")
	}

	approved := models.RequestStatusApproved
	updated, err := s.UpdateVerificationRequest(request.ID, RequestPatch{Status: &approved})
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	if updated.Status != models.RequestStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.RequestType != "kyc" {
		t.Fatalf("expected requestType untouched, got %s", updated.RequestType)
	}

	got, err := s.GetVerificationRequest(request.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != models.RequestStatusApproved {
		t.Fatalf("expected approved after reload, got %s", got.Status)
	}

	bogus := models.RequestStatus("bogus")
	if _, err := s.UpdateVerificationRequest(request.ID, RequestPatch{Status: &bogus}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := s.CreateVerificationRequest("Awallet", "missing", "kyc", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown target, got %v", err)
	}
	if _, err := s.GetVerificationRequest(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	sent, received, err := s.ListVerificationRequests("Awallet")
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(sent) != 1 || len(received) != 0 {
		t.Fatalf("expected 1 sent and 0 received for requester, got %d/%d", len(sent), len(received))
	}
	_, received, _ = s.ListVerificationRequests("Bwallet")
	if len(received) != 1 {
		t.Fatalf("expected 1 received for target, got %d", len(received))
	}
}

func TestDocumentReviewPromotesOwner(t *testing.T) {
	s := newTestStore(t)
	owner := mustCreateUser(t, s, "Awallet")
	reviewer := mustCreateUser(t, s, "Rwallet")

	doc, err := s.AddDocument("Awallet", models.Document{
		DocumentType: "passport",
		FileName:     "stored-name.pdf",
		OriginalName: "passport.pdf",
		FileSize:     1024,
		MimeType:     "application/pdf",
	})
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if doc.Status != models.DocumentStatusPending {
		t.Fatalf("expected pending, got %s", doc.Status)
	}

	reviewed, err := s.ReviewDocument(doc.ID, reviewer.ID, models.DocumentStatusVerified, "looks good")
	if err != nil {
		t.Fatalf("review document: %v", err)
	}
	if reviewed.Status != models.DocumentStatusVerified {
		t.Fatalf("expected verified, got %s", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != reviewer.ID || reviewed.ReviewedAt == nil {
		t.Fatal("expected reviewer and time recorded")
	}

	promoted, err := s.GetUserByID(owner.ID)
	if err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if promoted.Status != models.UserStatusVerified {
		t.Fatalf("expected owner promoted to verified, got %s", promoted.Status)
	}

	if _, err := s.ReviewDocument(doc.ID, reviewer.ID, models.DocumentStatusPending, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for pending decision, got %v", err)
	}
}

func TestNotifications(t *testing.T) {
	s := newTestStore(t)
	a := mustCreateUser(t, s, "Awallet")
	b := mustCreateUser(t, s, "Bwallet")

	if _, err := s.AddNotification(a.ID, "test", "Hello", "body", nil); err != nil {
		t.Fatalf("add notification: %v", err)
	}

	list, err := s.ListNotifications(a.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d (%v)", len(list), err)
	}
	if list[0].Read {
		t.Fatal("expected unread notification")
	}

	if err := s.MarkNotificationRead(list[0].ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err := s.MarkNotificationRead(list[0].ID, a.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ = s.ListNotifications(a.ID)
	if !list[0].Read {
		t.Fatal("expected notification to be read")
	}
}
