package crudguard

import (
	"maps"

	"github.com/goliatone/go-crud"
)

// Access is the level a CRUD verb requires before the service runs.
type Access string

const (
	// AccessPublic runs without a session. Swag request intake is the only
	// public write in the module.
	AccessPublic Access = "public"
	// AccessAdmin requires a live admin session token on the request context.
	AccessAdmin Access = "admin"
)

// DefaultPolicyMap maps the standard CRUD verbs for the swag request
// resource: submission is public, everything else needs an admin session.
func DefaultPolicyMap() map[crud.CrudOperation]Access {
	return map[crud.CrudOperation]Access{
		crud.OpCreate:      AccessPublic,
		crud.OpRead:        AccessAdmin,
		crud.OpList:        AccessAdmin,
		crud.OpCreateBatch: AccessAdmin,
		crud.OpUpdate:      AccessAdmin,
		crud.OpUpdateBatch: AccessAdmin,
		crud.OpDelete:      AccessAdmin,
		crud.OpDeleteBatch: AccessAdmin,
	}
}

// AdminOnlyPolicyMap maps every CRUD verb to admin access. Used by read-only
// admin resources such as the activity feed.
func AdminOnlyPolicyMap() map[crud.CrudOperation]Access {
	m := DefaultPolicyMap()
	m[crud.OpCreate] = AccessAdmin
	return m
}

func clonePolicyMap(in map[crud.CrudOperation]Access) map[crud.CrudOperation]Access {
	if len(in) == 0 {
		return nil
	}
	cp := make(map[crud.CrudOperation]Access, len(in))
	maps.Copy(cp, in)
	return cp
}
