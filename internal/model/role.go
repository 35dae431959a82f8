package model

import "strings"

// Role is the closed set of account roles.  The zero value is not a valid
// role; use ParseRole to convert untrusted input.
type Role string

const (
    RoleSpectator Role = "SPECTATOR"
    RoleManager   Role = "MANAGER"
    RoleAdmin     Role = "ADMIN"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleSpectator, RoleManager, RoleAdmin}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
    r := Role(strings.ToUpper(strings.TrimSpace(s)))
    switch r {
    case RoleSpectator, RoleManager, RoleAdmin:
        return r, true
    }
    return "", false
}

func (r Role) Valid() bool {
    _, ok := ParseRole(string(r))
    return ok
}

func (r Role) String() string { return string(r) }

// RoleSet is a capability set: the roles allowed to perform an operation.
// An empty set admits any authenticated role.
type RoleSet map[Role]struct{}

// AllowRoles builds a RoleSet from the given roles.
func AllowRoles(roles ...Role) RoleSet {
    s := make(RoleSet, len(roles))
    for _, r := range roles {
        s[r] = struct{}{}
    }
    return s
}

// Allows reports whether r is admitted by the set.
func (s RoleSet) Allows(r Role) bool {
    if !r.Valid() {
        return false
    }
    if len(s) == 0 {
        return true
    }
    _, ok := s[r]
    return ok
}

// Allowed-role sets per operation.
var (
    AnyAuthenticated = AllowRoles()
    CatalogEditors   = AllowRoles(RoleManager, RoleAdmin)
    StatsReaders     = AllowRoles(RoleManager)
    PaymentAuditors  = AllowRoles(RoleManager, RoleAdmin)
    Administrators   = AllowRoles(RoleAdmin)
)

// Principal is an authenticated caller: the (subject id, role) pair carried
// by an access token.
type Principal struct {
    AccountID uint64
    Role      Role
}

// Can reports whether the principal's role is admitted by set.
func (p Principal) Can(set RoleSet) bool { return p.AccountID != 0 && set.Allows(p.Role) }
