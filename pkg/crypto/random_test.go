package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	assert.NoError(t, err)
	assert.Len(t, token, 32) // hex encoded

	other, err := GenerateRandomToken(16)
	assert.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateTimestampedID(t *testing.T) {
	origNow := nowFunc
	t.Cleanup(func() { nowFunc = origNow })
	nowFunc = func() time.Time { return time.UnixMilli(1700000000123) }

	id, err := GenerateTimestampedID(4)
	assert.NoError(t, err)
	assert.Regexp(t, `^1700000000123-[0-9a-f]{8}$`, id)
}

func TestGenerateRandomToken_ErrorBranch(t *testing.T) {
	origRandRead := randomRead
	t.Cleanup(func() { randomRead = origRandRead })

	randomRead = func([]byte) (int, error) {
		return 0, errors.New("rand failed")
	}
	_, err := GenerateRandomToken(16)
	assert.Error(t, err)

	_, err = GenerateTimestampedID(4)
	assert.Error(t, err)
}
