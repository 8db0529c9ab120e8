package auth

// Policy is one of the three nested authorization levels. The levels
// share an evaluator; the two consuming surfaces only differ in how
// they halt.
type Policy int

const (
	// PolicyAuthenticated requires a resolved scope.
	PolicyAuthenticated Policy = iota
	// PolicyOrganization additionally requires organization membership.
	PolicyOrganization
	// PolicyAdmin additionally requires an admin record.
	PolicyAdmin
)

func (p Policy) String() string {
	switch p {
	case PolicyAuthenticated:
		return "authenticated"
	case PolicyOrganization:
		return "organization"
	case PolicyAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a policy against a scope.
type Decision struct {
	// Allowed reports whether the request/mount may continue.
	Allowed bool

	// RedirectPath is where to send the user when not allowed.
	RedirectPath string

	// WithReturnTo reports whether the surface should carry a return
	// target with the redirect. Always false for the admin denial,
	// which is a silent redirect home.
	WithReturnTo bool
}

// Evaluate applies the policy table to a scope. Pure and idempotent:
// the same scope yields the same decision every time.
//
//	policy         scope absent   org absent    admin absent   otherwise
//	authenticated  → sign-in      —             —              continue
//	organization   → sign-in      → no-org      —              continue
//	admin          → sign-in      —             → home         continue
func (a *Authenticator) Evaluate(policy Policy, scope *Scope) Decision {
	if scope == nil || scope.User == nil {
		return Decision{RedirectPath: a.cfg.SignInPath, WithReturnTo: true}
	}

	switch policy {
	case PolicyOrganization:
		if scope.Org == nil {
			return Decision{RedirectPath: a.cfg.NoOrgPath, WithReturnTo: true}
		}
	case PolicyAdmin:
		if scope.Admin == nil {
			return Decision{RedirectPath: a.cfg.HomePath}
		}
	}

	return Decision{Allowed: true}
}
