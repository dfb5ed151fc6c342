package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short password", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash)
			assert.NoError(t, CompareHash(gotHash, tt.password))
		})
	}
}

func TestGetHash_TooLong(t *testing.T) {
	// bcrypt не принимает пароли длиннее 72 байт
	_, err := GetHash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", want: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password", want: false},
		{name: "empty password", hash: correctHash, password: "", want: false},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", password: "correct_password", want: false},
		{name: "empty hash", hash: "", password: "correct_password", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.hash, tt.password))
		})
	}
}

func TestGetHash_SaltedHashesDiffer(t *testing.T) {
	hash1, err := GetHash("same")
	require.NoError(t, err)
	hash2, err := GetHash("same")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestGenerate(t *testing.T) {
	p1, err := Generate(12)
	require.NoError(t, err)
	p2, err := Generate(12)
	require.NoError(t, err)

	assert.Len(t, p1, 12)
	assert.NotEqual(t, p1, p2)
	for _, r := range p1 {
		assert.True(t, strings.ContainsRune(alphabet, r))
	}

	_, err = Generate(0)
	assert.Error(t, err)
}
