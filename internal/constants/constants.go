package constants

import (
	"slices"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var Roles = []string{RoleAdmin, RoleUser}

const (
	LoginGoogle        = "GOOGLE"
	LoginGithub        = "GITHUB"
	LoginEmailPassword = "EMAIL_PASSWORD"
)

var LoginTypes = []string{LoginGoogle, LoginGithub, LoginEmailPassword}

var Boards = []string{"GSEB", "CBSE", "ICSE"}

var Standards = []string{"STD8", "STD9", "STD10", "STD11", "STD12"}

var Subjects = []string{"GUJARATI", "HINDI", "ENGLISH"}

var Mediums = []string{"HINDI_MEDIUM", "ENGLISH_MEDIUM", "GUJARATI_MEDIUM"}

const (
	TemporaryTokenExpiry = 20 * time.Minute
	OTPExpiry            = 5 * time.Minute
)

const DefaultDatabase = "paper-bot"

func IsBoard(v string) bool    { return slices.Contains(Boards, v) }
func IsStandard(v string) bool { return slices.Contains(Standards, v) }
func IsSubject(v string) bool  { return slices.Contains(Subjects, v) }
func IsMedium(v string) bool   { return slices.Contains(Mediums, v) }
func IsRole(v string) bool     { return slices.Contains(Roles, v) }

// RoleAllowed is the single capability check for role-gated behaviour.
// An empty required list allows any authenticated role.
func RoleAllowed(role string, required ...string) bool {
	if !IsRole(role) {
		return false
	}
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, role)
}

// IsAdmin is shorthand for RoleAllowed(role, RoleAdmin).
func IsAdmin(role string) bool {
	return RoleAllowed(role, RoleAdmin)
}
