package registry

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// generateKey creates a fresh ed25519 keypair for a new account and
// returns the public half in authorized-keys form, commented with the
// account email. The private half never leaves the daemon.
func generateKey(email string) (string, error) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ed25519 key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("convert public key: %w", err)
	}

	marshaled := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	return marshaled + " " + email, nil
}
