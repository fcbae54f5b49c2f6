package routes

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

func TestVerifySignatureEndpoint(t *testing.T) {
	app, _, _ := buildTestApp(t)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	wallet := base58.Encode(pub)
	message := utils.BuildChallengeMessage(wallet, utils.NewChallengeNonce())
	signature := base58.Encode(ed25519.Sign(priv, []byte(message)))

	code, body := do(t, app, http.MethodPost, "/api/auth/verify-signature", "", map[string]interface{}{
		"walletAddress": wallet,
		"signature":     signature,
		"message":       message,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200 for valid signature, got %d (%v)", code, body)
	}

	code, _ = do(t, app, http.MethodPost, "/api/auth/verify-signature", "", map[string]interface{}{
		"walletAddress": wallet,
		"signature":     signature,
		"message":       message + "tampered",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered message, got %d", code)
	}

	code, _ = do(t, app, http.MethodPost, "/api/auth/verify-signature", "", map[string]interface{}{
		"walletAddress": "not-a-wallet-0OIl",
		"signature":     signature,
		"message":       message,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed wallet, got %d", code)
	}

	code, _ = do(t, app, http.MethodPost, "/api/auth/verify-signature", "", map[string]interface{}{
		"walletAddress": wallet,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", code)
	}
}
