package service

import (
	"fmt"
	"strings"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// Authorize is the single authorization policy for every entry point.
//
// A nil session is denied. When required is not domain.RoleAny the session
// role must match it exactly; a mismatch is indistinguishable from an
// absent session.
func Authorize(s *domain.Session, required domain.Role) (*domain.Session, error) {
	if s == nil {
		return nil, domain.ErrDenied
	}
	if required != domain.RoleAny && s.Role != required {
		return nil, domain.ErrDenied
	}
	return s, nil
}

// Access is the read level a collection requires.
type Access string

const (
	AccessPublic   Access = "public"
	AccessSignedIn Access = "signed_in"
	AccessAdmin    Access = "admin"
)

// Permit applies Authorize for an access level. Public access lets a nil
// session through unchanged.
func Permit(s *domain.Session, a Access) (*domain.Session, error) {
	switch a {
	case AccessPublic:
		return s, nil
	case AccessAdmin:
		return Authorize(s, domain.RoleAdmin)
	default:
		return Authorize(s, domain.RoleAny)
	}
}

// ReadPolicy maps a collection to the access its list and detail reads need.
type ReadPolicy map[domain.Collection]Access

// DefaultReadPolicy lets any signed-in user browse catalog collections and
// keeps people and money admin-only.
func DefaultReadPolicy() ReadPolicy {
	return ReadPolicy{
		domain.CollectionDestinations:  AccessSignedIn,
		domain.CollectionPackages:      AccessSignedIn,
		domain.CollectionTours:         AccessSignedIn,
		domain.CollectionPolicies:      AccessSignedIn,
		domain.CollectionPromotions:    AccessSignedIn,
		domain.CollectionPageContents:  AccessSignedIn,
		domain.CollectionPages:         AccessSignedIn,
		domain.CollectionContentBlocks: AccessSignedIn,
		domain.CollectionUsers:         AccessAdmin,
		domain.CollectionBookings:      AccessAdmin,
		domain.CollectionPayments:      AccessAdmin,
	}
}

// For returns the access configured for c, falling back to admin for
// collections the policy does not mention.
func (p ReadPolicy) For(c domain.Collection) Access {
	if a, ok := p[c]; ok {
		return a
	}
	return AccessAdmin
}

// ParseReadPolicy overlays raw collection:access pairs onto the default policy.
func ParseReadPolicy(raw map[string]string) (ReadPolicy, error) {
	p := DefaultReadPolicy()
	for k, v := range raw {
		a := Access(strings.ToLower(strings.TrimSpace(v)))
		switch a {
		case AccessPublic, AccessSignedIn, AccessAdmin:
		default:
			return nil, fmt.Errorf("read policy %q: unknown access %q", k, v)
		}
		p[domain.Collection(strings.TrimSpace(k))] = a
	}
	return p, nil
}
