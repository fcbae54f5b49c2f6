package routes

import (
	"net/http"
	"testing"

	"github.com/kataras/iris/v12"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

func createConsent(t *testing.T, app *iris.Application, token string, dataTypes []string) uint {
	t.Helper()
	code, body := do(t, app, http.MethodPost, "/api/sharing/request", token, map[string]interface{}{
		"dataOwnerWalletAddress": "Owallet",
		"dataScope":              map[string]interface{}{"dataTypes": dataTypes},
	})
	if code != http.StatusCreated {
		t.Fatalf("expected 201 creating consent, got %d (%v)", code, body)
	}
	record := body["data"].(map[string]interface{})["consentRecord"].(map[string]interface{})
	if record["consentStatus"] != "pending" {
		t.Fatalf("expected pending consent, got %v", record["consentStatus"])
	}
	return uint(record["ID"].(float64))
}

func TestConsentGrantOwnershipScenario(t *testing.T) {
	app, store, tokens := buildTestApp(t)
	for _, wallet := range []string{"Rwallet", "Owallet", "Cwallet"} {
		if _, err := store.CreateUser(wallet, nil, models.UserTypeIndividual); err != nil {
			t.Fatalf("create user %s: %v", wallet, err)
		}
	}
	tokenR := signTestToken(t, tokens, "Rwallet", models.UserRoleUser)
	tokenO := signTestToken(t, tokens, "Owallet", models.UserRoleUser)
	tokenC := signTestToken(t, tokens, "Cwallet", models.UserRoleUser)

	consentID := createConsent(t, app, tokenR, []string{"passport"})

	// neither the requester nor a third party can grant
	for name, token := range map[string]string{"requester": tokenR, "third party": tokenC} {
		code, _ := do(t, app, http.MethodPost, "/api/sharing/grant", token, map[string]interface{}{
			"consentId": consentID,
		})
		if code != http.StatusForbidden {
			t.Fatalf("expected 403 granting as %s, got %d", name, code)
		}
	}
	record, err := store.GetConsentRecord(consentID)
	if err != nil {
		t.Fatalf("reload consent: %v", err)
	}
	if record.ConsentStatus != models.ConsentStatusPending {
		t.Fatalf("expected status to stay pending after denied grants, got %s", record.ConsentStatus)
	}

	// the data owner grants
	code, body := do(t, app, http.MethodPost, "/api/sharing/grant", tokenO, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for owner grant, got %d (%v)", code, body)
	}

	// only the data owner can revoke
	code, _ = do(t, app, http.MethodPost, "/api/sharing/revoke", tokenR, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 revoking as requester, got %d", code)
	}
	code, _ = do(t, app, http.MethodPost, "/api/sharing/revoke", tokenO, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for owner revoke, got %d", code)
	}

	// revoked is terminal
	code, _ = do(t, app, http.MethodPost, "/api/sharing/grant", tokenO, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 granting a revoked record, got %d", code)
	}

	code, _ = do(t, app, http.MethodPost, "/api/sharing/grant", tokenO, map[string]interface{}{
		"consentId": 9999,
	})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown consent, got %d", code)
	}
}

func TestCheckPermissionEndpoint(t *testing.T) {
	app, store, tokens := buildTestApp(t)
	for _, wallet := range []string{"Rwallet", "Owallet"} {
		if _, err := store.CreateUser(wallet, nil, models.UserTypeIndividual); err != nil {
			t.Fatalf("create user %s: %v", wallet, err)
		}
	}
	tokenR := signTestToken(t, tokens, "Rwallet", models.UserRoleUser)
	tokenO := signTestToken(t, tokens, "Owallet", models.UserRoleUser)

	check := func(dataType string) (bool, map[string]interface{}) {
		code, body := do(t, app, http.MethodPost, "/api/sharing/check-permission", tokenR, map[string]interface{}{
			"dataOwnerWalletAddress": "Owallet",
			"dataType":               dataType,
		})
		if code != http.StatusOK {
			t.Fatalf("expected 200 from check-permission, got %d (%v)", code, body)
		}
		data := body["data"].(map[string]interface{})
		return data["hasPermission"].(bool), data
	}

	// owner exists but no record: false, not an error
	if has, _ := check("email"); has {
		t.Fatal("expected no permission without a record")
	}

	consentID := createConsent(t, app, tokenR, []string{"passport"})
	if has, _ := check("passport"); has {
		t.Fatal("expected no permission while pending")
	}

	code, _ := do(t, app, http.MethodPost, "/api/sharing/grant", tokenO, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for grant, got %d", code)
	}

	has, data := check("passport")
	if !has {
		t.Fatal("expected permission for granted passport scope")
	}
	if data["consentRecord"] == nil {
		t.Fatal("expected the matching consent record in the response")
	}
	if has, _ := check("email"); has {
		t.Fatal("expected no permission for uncovered data type")
	}

	code, _ = do(t, app, http.MethodPost, "/api/sharing/revoke", tokenO, map[string]interface{}{
		"consentId": consentID,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for revoke, got %d", code)
	}
	if has, _ := check("passport"); has {
		t.Fatal("expected no permission after revocation")
	}
}

func TestListUserConsentsBuckets(t *testing.T) {
	app, store, tokens := buildTestApp(t)
	for _, wallet := range []string{"Rwallet", "Owallet"} {
		if _, err := store.CreateUser(wallet, nil, models.UserTypeIndividual); err != nil {
			t.Fatalf("create user %s: %v", wallet, err)
		}
	}
	tokenR := signTestToken(t, tokens, "Rwallet", models.UserRoleUser)
	tokenO := signTestToken(t, tokens, "Owallet", models.UserRoleUser)

	pendingID := createConsent(t, app, tokenR, []string{"email"})
	_ = pendingID
	grantedID := createConsent(t, app, tokenR, []string{"passport"})
	code, _ := do(t, app, http.MethodPost, "/api/sharing/grant", tokenO, map[string]interface{}{
		"consentId": grantedID,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for grant, got %d", code)
	}

	code, body := do(t, app, http.MethodGet, "/api/sharing/consent/Owallet", tokenO, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data := body["data"].(map[string]interface{})
	if len(data["pendingConsents"].([]interface{})) != 1 {
		t.Fatal("expected one pending consent")
	}
	if len(data["grantedConsents"].([]interface{})) != 1 {
		t.Fatal("expected one granted consent")
	}
	if len(data["revokedConsents"].([]interface{})) != 0 {
		t.Fatal("expected no revoked consents")
	}

	// consents are private to their owner
	code, _ = do(t, app, http.MethodGet, "/api/sharing/consent/Owallet", tokenR, nil)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 reading another wallet's consents, got %d", code)
	}
}
