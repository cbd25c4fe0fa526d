package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"abc12345", true},
		{"abcdefgh", false}, // no digit
		{"12345678", false}, // no letter
		{"a1b2c3", false},   // too short
		{"", false},
		{"Abcdef12", true},
		{"pass word 1", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, ValidatePasswordPolicy(tc.password), "password %q", tc.password)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := Password2Hash("abc12345")
	assert.NoError(t, err)
	assert.NotEqual(t, "abc12345", hash)
	assert.True(t, ValidatePasswordAndHash("abc12345", hash))
	assert.False(t, ValidatePasswordAndHash("abc12346", hash))
}
