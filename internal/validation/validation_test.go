package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLengths(t *testing.T) {
	long := strings.Repeat("a", MaxFieldLength+1)
	edge := strings.Repeat("é", MaxFieldLength)

	tests := []struct {
		name string
		in   Registration
		want bool
	}{
		{"all present", Registration{"alice", "alice@example.com", "Secret123", "Secret123"}, true},
		{"multibyte at limit", Registration{edge, "alice@example.com", "Secret123", "Secret123"}, true},
		{"missing username", Registration{"", "alice@example.com", "Secret123", "Secret123"}, false},
		{"missing confirmation", Registration{"alice", "alice@example.com", "Secret123", ""}, false},
		{"oversized email", Registration{"alice", long, "Secret123", "Secret123"}, false},
		{"oversized password", Registration{"alice", "alice@example.com", long, long}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidLengths(tt.in))
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.domain.org", "x_y%z@host.io"}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example", "alice@example.c", "alice@example.toolongtld", "alice example@x.com"}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestPasswordsMatch(t *testing.T) {
	assert.True(t, PasswordsMatch("Secret123", "Secret123"))
	assert.False(t, PasswordsMatch("Secret123", "secret123"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Registration{"alice", "alice@example.com", "Secret123", "Secret123"}))
	assert.False(t, Valid(Registration{"alice", "alice@example.com", "Secret123", "Other"}))
	assert.False(t, Valid(Registration{"alice", "not-an-email", "Secret123", "Secret123"}))
}
