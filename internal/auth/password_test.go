package auth

import (
	"testing"

	"gameslibrary/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Str0ng!pass", true},
		{"Ab1!abcd", true},
		{"Ab1!abc", false},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!!", false},
		{"NoSymbol12", false},
		{"", false},
	}
	for _, tc := range cases {
		err := CheckPasswordPolicy(tc.password)
		if tc.ok {
			assert.NoError(t, err, tc.password)
			continue
		}
		assert.True(t, domain.IsValidation(err), tc.password)
	}
}

func TestCheckPasswordPolicyListsEveryGap(t *testing.T) {
	err := CheckPasswordPolicy("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Contains(t, err.Error(), "an upper case letter")
	assert.Contains(t, err.Error(), "a digit")
	assert.Contains(t, err.Error(), "a special character")
	assert.NotContains(t, err.Error(), "a lower case letter")
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)
	assert.True(t, ComparePassword(hash, "Str0ng!pass"))
	assert.False(t, ComparePassword(hash, "Str0ng!pasS"))
	assert.False(t, ComparePassword("not-a-hash", "Str0ng!pass"))
}
