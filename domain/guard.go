package domain

// Authorization guards are pure decision predicates over an already-verified
// identity. They never touch storage and never mutate anything, so they can
// be composed freely (authenticate first, then narrow by role or ownership).
// A nil identity means the request was anonymous.

// RequireAuthenticated fails with ErrUnauthenticated when no identity is
// present.
func RequireAuthenticated(identity *Identity) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	return identity, nil
}

// RequireRole passes only identities carrying exactly the given role.
func RequireRole(identity *Identity, role Role) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if identity.Role != role {
		return nil, ErrForbidden
	}
	return identity, nil
}

// RequireAnyRole passes identities whose role is in the given set.
func RequireAnyRole(identity *Identity, roles ...Role) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	for _, r := range roles {
		if identity.Role == r {
			return identity, nil
		}
	}
	return nil, ErrForbidden
}

// RequireOwnership passes when the identity owns the resource or carries the
// admin role. Admins are never subject to the ownership check.
func RequireOwnership(identity *Identity, resourceOwnerID string) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if identity.Subject == resourceOwnerID || identity.Role == RoleAdmin {
		return identity, nil
	}
	return nil, ErrForbidden
}
