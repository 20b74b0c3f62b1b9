// Package models defines the PrimePost domain types the client works with.
package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleStoreOwner Role = "storeOwner"
	RoleSuperAdmin Role = "superAdmin"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "storeowner", "owner", "store-owner":
		return RoleStoreOwner, nil
	case "superadmin", "admin", "super-admin":
		return RoleSuperAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type TermsType string

const (
	TermsCustomer      TermsType = "customerTerms"
	TermsStoreOwner    TermsType = "storeOwnerTerms"
	TermsPrivacyPolicy TermsType = "privacyPolicy"
)

func ParseTermsType(s string) (TermsType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "customerterms":
		return TermsCustomer, nil
	case "owner", "storeowner", "storeownerterms":
		return TermsStoreOwner, nil
	case "privacy", "privacypolicy":
		return TermsPrivacyPolicy, nil
	default:
		return "", fmt.Errorf("unknown terms type %q", s)
	}
}

// TermsFor returns the terms category a role must accept. Super admins have
// none.
func TermsFor(role Role) (TermsType, bool) {
	switch role {
	case RoleCustomer:
		return TermsCustomer, true
	case RoleStoreOwner:
		return TermsStoreOwner, true
	default:
		return "", false
	}
}

type UserProfile struct {
	FullName                string `json:"fullName"`
	PhoneNumber             string `json:"phoneNumber"`
	Email                   string `json:"email"`
	DateOfBirth             string `json:"dateOfBirth"`
	Nationality             string `json:"nationality"`
	StateOfResidence        string `json:"stateOfResidence"`
	Role                    Role   `json:"role"`
	AcceptedCustomerTerms   bool   `json:"acceptedCustomerTerms"`
	AcceptedStoreOwnerTerms bool   `json:"acceptedStoreOwnerTerms"`
	IsSuspended             bool   `json:"isSuspended"`
}

// HasAccepted reports the profile's own acceptance flag for t. Privacy
// policy acceptance is not carried on the profile.
func (p UserProfile) HasAccepted(t TermsType) bool {
	switch t {
	case TermsCustomer:
		return p.AcceptedCustomerTerms
	case TermsStoreOwner:
		return p.AcceptedStoreOwnerTerms
	default:
		return false
	}
}
