package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("ann"))
	assert.True(t, ValidateName("ab"))
	assert.True(t, ValidateName(strings.Repeat("x", 20)))

	assert.False(t, ValidateName(""))
	assert.False(t, ValidateName("a"))
	assert.False(t, ValidateName("  a  "))
	assert.False(t, ValidateName(strings.Repeat("x", 21)))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", NormalizeEmail("  Ann@X.COM "))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@x.com"))

	assert.False(t, ValidateEmail(""))
	assert.False(t, ValidateEmail("ax.com"))
	assert.False(t, ValidateEmail("@x.com"))
	assert.False(t, ValidateEmail("a@"))
	assert.False(t, ValidateEmail("a b@x.com"))
}

func TestPasswordsMatch(t *testing.T) {
	assert.True(t, PasswordsMatch("p1", "p1"))

	assert.False(t, PasswordsMatch("p1", "p2"))
	assert.False(t, PasswordsMatch("", ""))
}
