package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		wantErr  bool
	}{
		{name: "matching password", password: "s3cret-pass", attempt: "s3cret-pass"},
		{name: "special chars", password: "p@ssw0rd!#$%", attempt: "p@ssw0rd!#$%"},
		{name: "wrong password", password: "s3cret-pass", attempt: "other-pass", wantErr: true},
		{name: "empty attempt", password: "s3cret-pass", attempt: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			err = Compare(hash, tt.attempt)
			if tt.wantErr {
				assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHash_Salted(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
