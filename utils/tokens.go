package utils

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// SessionClaims is the payload of a bearer session token. The wallet address
// is the caller's identity; the role gates the admin surface.
type SessionClaims struct {
	WalletAddress string `json:"walletAddress"`
	Role          string `json:"role"`
}

// TokenService issues and verifies HS256 session tokens bound to a wallet
// address. Expiry alone ends a session; there is no refresh or revocation
// list.
type TokenService struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenService builds a token service. A non-positive maxAge falls back to
// the default 7 days.
func NewTokenService(secret string, maxAge time.Duration) *TokenService {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), maxAge: maxAge}
}

// Issue signs a session token for the wallet.
func (t *TokenService) Issue(walletAddress string, role models.UserRole) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, t.secret, t.maxAge)
	token, err := signer.Sign(SessionClaims{
		WalletAddress: walletAddress,
		Role:          string(role),
	})
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Verifier returns the middleware that rejects requests without a valid,
// unexpired bearer token and exposes the claims to downstream handlers.
func (t *TokenService) Verifier() iris.Handler {
	verifier := jwt.NewVerifier(jwt.HS256, t.secret)
	return verifier.Verify(func() interface{} {
		return new(SessionClaims)
	})
}

// Session returns the verified claims for the request, or nil when the route
// was reached without the verifier.
func Session(ctx iris.Context) *SessionClaims {
	if tok := jwt.Get(ctx); tok != nil {
		if claims, ok := tok.(*SessionClaims); ok {
			return claims
		}
	}
	return nil
}
