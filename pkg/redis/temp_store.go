package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainrepos "citizen-portal.backend/internal/domain/repositories"
)

const tempDataPrefix = "temp:"

// TempStore keeps unpaid form payloads in Redis, encrypted at rest, so every instance behind a
// load balancer sees the same entries.
type TempStore struct {
	encryptionKey []byte
	ttl           time.Duration
}

var (
	setTempValue    = Set
	getDelTempValue = GetDel
)

// NewTempStore creates a temp store. The key is 32 bytes, hex encoded.
func NewTempStore(encryptionKeyHex string, ttl time.Duration) (*TempStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	if ttl <= 0 {
		return nil, errors.New("temp data ttl must be positive")
	}
	return &TempStore{encryptionKey: key, ttl: ttl}, nil
}

// Put stores the encrypted payload under id until the ttl elapses
func (s *TempStore) Put(ctx context.Context, id string, payload []byte) error {
	encrypted, err := s.encrypt(payload)
	if err != nil {
		return err
	}
	return setTempValue(ctx, tempDataPrefix+id, encrypted, s.ttl)
}

// Take returns the payload and deletes it atomically
func (s *TempStore) Take(ctx context.Context, id string) ([]byte, error) {
	encrypted, err := getDelTempValue(ctx, tempDataPrefix+id)
	if errors.Is(err, goredis.Nil) {
		return nil, domainrepos.ErrTempDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.decrypt(encrypted)
}

func (s *TempStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *TempStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
