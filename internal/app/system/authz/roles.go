// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"slices"
	"strings"

	"github.com/flicapp/flicapp/internal/domain/models"
)

// knownRoles are the roles that scope data in FlicApp. A session carrying any
// other role is signed in but sees nothing.
var knownRoles = []string{models.RoleAdmin, models.RoleProvider, models.RoleClient}

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	return slices.ContainsFunc(roles, func(want string) bool {
		return role == strings.ToLower(strings.TrimSpace(want))
	})
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// HasKnownRole reports whether the user holds one of the admin, provider or
// client roles.
func HasKnownRole(r *http.Request) bool {
	return HasAnyRole(r, knownRoles...)
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool { return HasRole(r, models.RoleAdmin) }

// IsProvider reports whether the current request's user is a service provider.
func IsProvider(r *http.Request) bool { return HasRole(r, models.RoleProvider) }

// IsClient reports whether the current request's user is a client.
func IsClient(r *http.Request) bool { return HasRole(r, models.RoleClient) }
