package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeyqueue/case-backend/internal/apperr"
)

func TestNric(t *testing.T) {
	valid := []string{"S1234567A", "T7654321Z", "F0000000X", "G9999999#"}
	for _, v := range valid {
		assert.NoError(t, Nric(v), v)
	}

	invalid := map[string]string{
		"":           "nric is required",
		"A1234567B":  "nric format is wrong",
		"S123456B":   "nric format is wrong",
		"S12345678B": "nric format is wrong",
		"s1234567a":  "nric format is wrong",
	}
	for v, msg := range invalid {
		err := Nric(v)
		require.Error(t, err, v)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
		assert.Equal(t, msg, err.(*apperr.Error).Message)
	}
}

func TestStatePredicates(t *testing.T) {
	assert.True(t, IsFinalState("closed"))
	assert.True(t, IsFinalState("completed"))
	assert.False(t, IsFinalState("open"))
	assert.False(t, IsFinalState("processing"))
	assert.False(t, IsFinalState("Closed"))

	assert.True(t, IsStatus("processing"))
	assert.False(t, IsStatus("bogus"))

	assert.True(t, IsCategory("normal"))
	assert.True(t, IsCategory("welfare"))
	assert.True(t, IsCategory("minister"))
	assert.False(t, IsCategory("urgent"))
	assert.False(t, IsCategory(""))
}

func TestPhone(t *testing.T) {
	tests := []struct {
		cc, number string
		wantMsg    string
	}{
		{"65", "91234567", ""},
		{"", "91234567", "phone.countryCode is required."},
		{"6a", "91234567", "phone.countryCode can only be digits."},
		{"656", "91234567", "phone.countryCode needs to be 2-digit long."},
		{"65", "", "phone.number is required."},
		{"65", "9123-456", "phone.number can only be digits."},
		{"65", "9123456", "phone.number needs to be 8-digit long."},
	}
	for _, tc := range tests {
		err := Phone("phone", tc.cc, tc.number)
		if tc.wantMsg == "" {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		assert.Equal(t, tc.wantMsg, err.(*apperr.Error).Message)
	}
}

func TestUserProfileFirstFailureWins(t *testing.T) {
	ok := Profile{
		Name:          "Tan Ah Kow",
		Email:         "ahkow@example.com",
		Race:          "chinese",
		Gender:        "male",
		MaritalStatus: "married",
		Occupation:    "Retiree",
		PostalCode:    "560012",
	}
	require.NoError(t, UserProfile(ok))

	p := ok
	p.Email = "not-an-email"
	p.Race = "martian"
	err := UserProfile(p)
	require.Error(t, err)
	assert.Equal(t, "invalid email", err.(*apperr.Error).Message)

	p = ok
	p.Race = "martian"
	err = UserProfile(p)
	require.Error(t, err)
	assert.Equal(t, "race can only be [chinese|malay|indian|others].", err.(*apperr.Error).Message)

	p = ok
	p.PostalCode = "56001"
	assert.Error(t, UserProfile(p))

	p = ok
	p.NRIC = "X1"
	assert.Error(t, UserProfile(p))
}

func TestCaseFields(t *testing.T) {
	assert.NoError(t, CaseFields("Water leak", "", "", "L1"))
	assert.NoError(t, CaseFields(strings.Repeat("a", 80), strings.Repeat("b", 280), "English", "L1"))

	err := CaseFields("", "desc", "", "L1")
	require.Error(t, err)
	assert.Equal(t, "subject is required", err.(*apperr.Error).Message)

	err = CaseFields(strings.Repeat("a", 81), "", "", "L1")
	require.Error(t, err)
	assert.Equal(t, "subject allows a maximum of 80 characters.", err.(*apperr.Error).Message)

	err = CaseFields("Water leak", strings.Repeat("b", 281), "", "L1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")

	err = CaseFields("Water leak", "", "", "  ")
	require.Error(t, err)
	assert.Equal(t, "location is required", err.(*apperr.Error).Message)
}

func TestKioskManager(t *testing.T) {
	assert.NoError(t, KioskManager("km@example.com", "Siti", "Rahman"))
	assert.Error(t, KioskManager("km@example", "Siti", "Rahman"))
	assert.Error(t, KioskManager("km@example.com", "", "Rahman"))
	assert.Error(t, KioskManager("km@example.com", "Siti", ""))
}
