package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestHash(memory, time uint32, threads uint8, salt, hash []byte) string {
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, time, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

func TestDecodeArgon2Hash(t *testing.T) {
	salt := make([]byte, 16)
	hash := make([]byte, 32)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	_, err = rand.Read(hash)
	require.NoError(t, err)

	encoded := encodeTestHash(65536, 1, 4, salt, hash)

	parts, err := DecodeArgon2Hash(encoded)
	require.NoError(t, err)

	assert.Equal(t, uint32(65536), parts.Memory)
	assert.Equal(t, uint32(1), parts.Time)
	assert.Equal(t, uint8(4), parts.Threads)
	assert.Equal(t, uint32(32), parts.KeyLen)
	assert.Equal(t, salt, parts.Salt)
	assert.Equal(t, hash, parts.Hash)
}

func TestDecodeArgon2HashRejectsMalformed(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"too few sections", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
		{"wrong variant", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"not a hash at all", "hunter2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeArgon2Hash(tc.encoded)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestDecodeArgon2HashRejectsWrongVersion(t *testing.T) {
	_, err := DecodeArgon2Hash("$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare([]byte("same"), []byte("same")))
	assert.False(t, SecureCompare([]byte("same"), []byte("diff")))
	assert.False(t, SecureCompare([]byte("short"), []byte("longer value")))
	assert.True(t, SecureCompare([]byte{}, []byte{}))
}
