package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Identity addresses are wallet style: the last 20 bytes of the Keccak-256
// digest of the ed25519 public key, hex encoded with a 0x prefix. Sessions
// are opened by signing a server-issued challenge nonce with the matching
// private key.

const addressLength = 20

// DeriveAddress computes the registry address for a public key.
func DeriveAddress(publicKey ed25519.PublicKey) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", errors.New("invalid public key length")
	}
	digest := sha3.NewLegacyKeccak256()
	digest.Write(publicKey)
	sum := digest.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-addressLength:]), nil
}

// VerifyChallenge checks that signature was produced over the nonce by the
// key behind the claimed address.
func VerifyChallenge(address string, publicKey ed25519.PublicKey, nonce string, signature []byte) error {
	derived, err := DeriveAddress(publicKey)
	if err != nil {
		return err
	}
	if !strings.EqualFold(derived, address) {
		return errors.New("public key does not match address")
	}
	if !ed25519.Verify(publicKey, []byte(nonce), signature) {
		return errors.New("invalid challenge signature")
	}
	return nil
}

// ValidAddress reports whether the value is a well-formed address token.
func ValidAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	raw, err := hex.DecodeString(address[2:])
	return err == nil && len(raw) == addressLength
}
