package gate

import "github.com/dmitrijs2005/primepost/internal/client/models"

type Route struct {
	Path         string
	RequiredRole models.Role
	// RequiredTerms is empty when the route has no terms requirement.
	RequiredTerms models.TermsType
}

type RouteInputs struct {
	IdentityLoading bool
	Authenticated   bool
	Profile         ProfileStatus
	Role            models.Role
	// TermsAccepted is nil while the acceptance query is pending.
	TermsAccepted *bool
}

type Outcome int

const (
	Allow Outcome = iota
	Wait
	RedirectLogin
	AccessDenied
	RedirectTerms
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect-login"
	case AccessDenied:
		return "access-denied"
	case RedirectTerms:
		return "redirect-terms"
	case Unavailable:
		return "unavailable"
	default:
		return "allow"
	}
}

// CheckRoute decides whether route may render. Super admins skip terms.
func CheckRoute(route Route, in RouteInputs) Outcome {
	if route.RequiredRole == "" && route.RequiredTerms == "" {
		return Allow
	}
	if in.IdentityLoading {
		return Wait
	}
	if !in.Authenticated {
		return RedirectLogin
	}

	switch in.Profile {
	case ProfileLoading:
		return Wait
	case ProfileFailed:
		return Unavailable
	case ProfileAbsent:
		// Profile setup gate takes over.
		return Wait
	}

	if route.RequiredRole != "" && in.Role != route.RequiredRole {
		return AccessDenied
	}

	if route.RequiredTerms == "" || in.Role == models.RoleSuperAdmin {
		return Allow
	}
	if in.TermsAccepted == nil {
		return Wait
	}
	if !*in.TermsAccepted {
		return RedirectTerms
	}
	return Allow
}

func LoginRouteFor(role models.Role) string {
	switch role {
	case models.RoleStoreOwner:
		return "/login/owner"
	case models.RoleSuperAdmin:
		return "/login/admin"
	default:
		return "/login/customer"
	}
}

func HomeRouteFor(role models.Role) string {
	switch role {
	case models.RoleStoreOwner:
		return "/owner"
	case models.RoleSuperAdmin:
		return "/admin"
	case models.RoleCustomer:
		return "/customer"
	default:
		return "/"
	}
}

func TermsRouteFor(terms models.TermsType) string {
	switch terms {
	case models.TermsStoreOwner:
		return "/terms/owner"
	case models.TermsPrivacyPolicy:
		return "/terms/privacy"
	default:
		return "/terms/customer"
	}
}

// RouteFor resolves a path to its protection rules. Unknown paths are
// public.
func RouteFor(path string) Route {
	switch {
	case hasPrefix(path, "/customer"):
		return Route{Path: path, RequiredRole: models.RoleCustomer, RequiredTerms: models.TermsCustomer}
	case hasPrefix(path, "/owner"):
		return Route{Path: path, RequiredRole: models.RoleStoreOwner, RequiredTerms: models.TermsStoreOwner}
	case hasPrefix(path, "/admin"):
		return Route{Path: path, RequiredRole: models.RoleSuperAdmin}
	default:
		return Route{Path: path}
	}
}

func hasPrefix(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
