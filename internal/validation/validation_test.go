package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("budi@example.com"))
	assert.NoError(t, ValidateEmail("Budi Santoso <budi@example.com>"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("budi@"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("rahasia123"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("12345678"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Budi"))
	assert.Error(t, ValidateName("   "))
}
