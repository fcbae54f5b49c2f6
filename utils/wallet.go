package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Wallet addresses are base58-encoded ed25519 public keys. Signatures are
// base58-encoded 64-byte ed25519 signatures over the raw challenge message
// bytes, which is what Solana wallet adapters produce for signMessage.

var ErrInvalidWalletAddress = errors.New("invalid wallet address")
var ErrInvalidSignature = errors.New("signature does not match wallet")

// NormalizeWalletAddress trims surrounding whitespace. Base58 is
// case-sensitive, so nothing else is touched.
func NormalizeWalletAddress(addr string) string {
	return strings.TrimSpace(addr)
}

// ParseWalletAddress decodes a wallet address into its public key.
func ParseWalletAddress(addr string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(NormalizeWalletAddress(addr))
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidWalletAddress
	}
	return ed25519.PublicKey(raw), nil
}

// VerifyWalletSignature checks that signature was produced over message by
// the private key behind walletAddress.
func VerifyWalletSignature(walletAddress, message, signature string) error {
	pub, err := ParseWalletAddress(walletAddress)
	if err != nil {
		return err
	}
	sig, err := base58.Decode(strings.TrimSpace(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(pub, []byte(message), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// NewChallengeNonce returns a random hex string for a login challenge.
func NewChallengeNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	const hex = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}

// BuildChallengeMessage renders the message a wallet signs to log in.
func BuildChallengeMessage(walletAddress, nonce string) string {
	return fmt.Sprintf(
		"IDenclave wants you to sign in with your wallet:\n%s\n\nNonce: %s",
		NormalizeWalletAddress(walletAddress), nonce)
}

// NonceFromMessage extracts the nonce line from a challenge message. Empty
// when the message does not carry one.
func NonceFromMessage(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if rest, ok := strings.CutPrefix(line, "Nonce: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
