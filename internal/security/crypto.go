package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize         = 32
	keySize          = 32
	kdfIterations    = 100000
	saltFileName     = ".token.salt"
	keyMaterialLabel = "remind-me-the-hard-way"
)

// TokenEncryptor encrypts the serialized OAuth credential at rest with a
// key bound to this machine and user.
type TokenEncryptor struct {
	derivedKey []byte
}

// NewTokenEncryptor derives the key from the machine ID, the user's home
// directory and a random salt persisted in dir.
func NewTokenEncryptor(dir string) (*TokenEncryptor, error) {
	salt, err := generateOrLoadSalt(dir)
	if err != nil {
		return nil, NewCryptoError("salt", "failed to prepare salt").WithCause(err)
	}

	userHome, err := os.UserHomeDir()
	if err != nil || userHome == "" {
		return nil, NewCryptoError("key", "home directory is not available").WithCause(err)
	}

	keyMaterial := fmt.Sprintf("%s:%s:%s", keyMaterialLabel, getMachineID(), userHome)
	return newTokenEncryptor([]byte(keyMaterial), salt), nil
}

func newTokenEncryptor(keyMaterial, salt []byte) *TokenEncryptor {
	return &TokenEncryptor{
		derivedKey: pbkdf2.Key(keyMaterial, salt, kdfIterations, keySize, sha256.New),
	}
}

// Encrypt seals plaintext with AES-256-GCM and returns base64 nonce||ciphertext.
func (te *TokenEncryptor) Encrypt(plaintext []byte) (string, error) {
	if len(plaintext) == 0 {
		return "", NewCryptoError("encrypt", "plaintext cannot be empty")
	}

	gcm, err := te.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", NewCryptoError("encrypt", "failed to generate nonce").WithCause(err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (te *TokenEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	if ciphertext == "" {
		return nil, NewCryptoError("decrypt", "ciphertext cannot be empty")
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, NewCryptoError("decrypt", "invalid base64 encoding").WithCause(err)
	}

	gcm, err := te.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, NewCryptoError("decrypt", "ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, NewCryptoError("decrypt", "authentication failed").WithCause(err)
	}
	return plaintext, nil
}

func (te *TokenEncryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(te.derivedKey)
	if err != nil {
		return nil, NewCryptoError("cipher", "failed to create cipher").WithCause(err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, NewCryptoError("cipher", "failed to create GCM").WithCause(err)
	}
	return gcm, nil
}

func generateOrLoadSalt(dir string) ([]byte, error) {
	saltPath := filepath.Join(dir, saltFileName)

	if salt, err := os.ReadFile(saltPath); err == nil && len(salt) == saltSize {
		return salt, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate random salt: %w", err)
	}

	if err := os.WriteFile(saltPath, salt, 0600); err != nil {
		return nil, fmt.Errorf("failed to save salt: %w", err)
	}
	return salt, nil
}

// getMachineID reads the systemd/dbus machine ID, falling back to hostname and uid.
func getMachineID() string {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
			return string(data[:min(len(data), 32)])
		}
	}

	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getuid())
}
