// Package validate holds the request field checks shared by the services.
// Every check is pure: it returns nil when the value is acceptable and an
// apperr bad-request error carrying a human-readable message otherwise.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/models"
)

const (
	MaxSubjectLength     = 80
	MaxDescriptionLength = 280
	MaxShortTextLength   = 80
)

var (
	nricRx        = regexp.MustCompile(`^[STFG]\d{7}.$`)
	countryCodeRx = regexp.MustCompile(`^\d{2}$`)
	phoneNumberRx = regexp.MustCompile(`^\d{8}$`)
	digitsRx      = regexp.MustCompile(`^\d+$`)
	postalCodeRx  = regexp.MustCompile(`^\d{6}$`)
	emailRx       = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)
)

var (
	Races           = []string{"chinese", "malay", "indian", "others"}
	Genders         = []string{"male", "female"}
	MaritalStatuses = []string{"single", "married", "divorced", "widowed"}
	Statuses        = []string{models.CaseStatusOpen, models.CaseStatusProcessing, models.CaseStatusClosed, models.CaseStatusCompleted}
	FinalStates     = []string{models.CaseStatusClosed, models.CaseStatusCompleted}
	Categories      = []string{models.CaseCategoryNormal, models.CaseCategoryWelfare, models.CaseCategoryMinister}
)

// Nric checks a Singapore NRIC/FIN: S, T, F or G, seven digits, one checksum character.
func Nric(value string) error {
	if value == "" {
		return apperr.BadRequest("nric is required", map[string]string{"nric": value})
	}
	if !nricRx.MatchString(value) {
		return apperr.BadRequest("nric format is wrong", map[string]string{"nric": value})
	}
	return nil
}

func IsFinalState(status string) bool {
	return oneOf(status, FinalStates)
}

func IsStatus(status string) bool {
	return oneOf(status, Statuses)
}

func IsCategory(category string) bool {
	return oneOf(category, Categories)
}

// Choices renders the accepted values the way error messages show them: "[a|b|c]".
func Choices(values []string) string {
	return "[" + strings.Join(values, "|") + "]"
}

// Phone checks a country code / number pair.
func Phone(prefix, countryCode, number string) error {
	switch {
	case countryCode == "":
		return apperr.BadRequest(prefix+".countryCode is required.", nil)
	case !digitsRx.MatchString(countryCode):
		return apperr.BadRequest(prefix+".countryCode can only be digits.", nil)
	case !countryCodeRx.MatchString(countryCode):
		return apperr.BadRequest(prefix+".countryCode needs to be 2-digit long.", nil)
	case number == "":
		return apperr.BadRequest(prefix+".number is required.", nil)
	case !digitsRx.MatchString(number):
		return apperr.BadRequest(prefix+".number can only be digits.", nil)
	case !phoneNumberRx.MatchString(number):
		return apperr.BadRequest(prefix+".number needs to be 8-digit long.", nil)
	}
	return nil
}

func Email(value string) error {
	if value == "" {
		return apperr.BadRequest("email is required", nil)
	}
	if !emailRx.MatchString(value) {
		return apperr.BadRequest("invalid email", map[string]string{"email": value})
	}
	return nil
}

// Profile is the subset of user attributes checked on registration.
type Profile struct {
	NRIC          string
	Name          string
	Email         string
	Race          string
	Gender        string
	MaritalStatus string
	Occupation    string
	NoOfChildren  int
	PostalCode    string
}

// UserProfile checks a citizen profile. The first failing check wins.
func UserProfile(p Profile) error {
	checks := []func() error{
		func() error { return required("name", p.Name, MaxShortTextLength) },
		func() error { return Email(p.Email) },
		func() error {
			if p.NRIC == "" {
				return nil
			}
			return Nric(p.NRIC)
		},
		func() error { return enum("race", p.Race, Races) },
		func() error { return enum("gender", p.Gender, Genders) },
		func() error { return enum("maritalStatus", p.MaritalStatus, MaritalStatuses) },
		func() error { return required("occupation", p.Occupation, MaxShortTextLength) },
		func() error {
			if p.NoOfChildren < 0 {
				return apperr.BadRequest("noOfChildren cannot be negative", nil)
			}
			return nil
		},
		func() error {
			if p.PostalCode != "" && !postalCodeRx.MatchString(p.PostalCode) {
				return apperr.BadRequest("postalCode needs to be 6 digits", nil)
			}
			return nil
		},
	}
	return first(checks)
}

// KioskManager checks the identity fields of a kiosk operator.
func KioskManager(email, firstName, lastName string) error {
	return first([]func() error{
		func() error { return Email(email) },
		func() error { return required("firstName", firstName, MaxShortTextLength) },
		func() error { return required("lastName", lastName, MaxShortTextLength) },
	})
}

// CaseFields checks the user-supplied fields of a new case.
func CaseFields(subject, description, language, location string) error {
	return first([]func() error{
		func() error { return required("subject", subject, MaxSubjectLength) },
		func() error { return maxLength("description", description, MaxDescriptionLength) },
		func() error { return maxLength("language", language, MaxShortTextLength) },
		func() error { return required("location", location, MaxShortTextLength) },
	})
}

func required(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return apperr.BadRequest(field+" is required", nil)
	}
	return maxLength(field, value, max)
}

func maxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperr.BadRequest(fmt.Sprintf("%s allows a maximum of %d characters.", field, max), nil)
	}
	return nil
}

func enum(field, value string, allowed []string) error {
	if value == "" {
		return apperr.BadRequest(field+" is required", nil)
	}
	if !oneOf(value, allowed) {
		return apperr.BadRequest(field+" can only be "+Choices(allowed)+".", nil)
	}
	return nil
}

func first(checks []func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
