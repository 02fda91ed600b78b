package auth

// OwnershipPolicy decides whether a principal may act on a resource
// owned by resourceOwnerID. The default policy is strict identity
// equality; richer policies (roles, groups) can be plugged in through
// this strategy.
type OwnershipPolicy interface {
	Authorize(principal Principal, resourceOwnerID string) error
}

// OwnershipPolicyFunc adapts a function into an OwnershipPolicy.
type OwnershipPolicyFunc func(principal Principal, resourceOwnerID string) error

// Authorize satisfies the OwnershipPolicy interface.
func (f OwnershipPolicyFunc) Authorize(principal Principal, resourceOwnerID string) error {
	return f(principal, resourceOwnerID)
}

// OwnershipGuard enforces per-resource ownership. Pure and
// side-effect-free; safe for unlimited concurrent use.
type OwnershipGuard struct {
	policy OwnershipPolicy
}

// NewOwnershipGuard returns a guard using the self-only ownership rule.
func NewOwnershipGuard() *OwnershipGuard {
	return &OwnershipGuard{policy: OwnershipPolicyFunc(selfOwnershipPolicy)}
}

// WithPolicy replaces the ownership policy.
func (g *OwnershipGuard) WithPolicy(policy OwnershipPolicy) *OwnershipGuard {
	if policy != nil {
		g.policy = policy
	}
	return g
}

// Authorize returns nil when the principal may act on the resource and
// ErrNotResourceOwner otherwise. The caller is known at this point, so
// a denial is Forbidden, never Unauthenticated.
func (g *OwnershipGuard) Authorize(principal Principal, resourceOwnerID string) error {
	return g.policy.Authorize(principal, resourceOwnerID)
}

func selfOwnershipPolicy(principal Principal, resourceOwnerID string) error {
	if principal.IsZero() || resourceOwnerID == "" {
		return ErrNotResourceOwner
	}
	if principal.ID != resourceOwnerID {
		return ErrNotResourceOwner
	}
	return nil
}

// AuthorizeOwner applies the default self-only ownership rule without
// constructing a guard.
func AuthorizeOwner(principal Principal, resourceOwnerID string) error {
	return selfOwnershipPolicy(principal, resourceOwnerID)
}
