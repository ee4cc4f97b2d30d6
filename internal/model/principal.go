package model

// Privilege enumerates account privilege levels.
type Privilege string

const (
	// PrivilegeAdmin grants unrestricted access to all tenants.
	PrivilegeAdmin Privilege = "admin"
	// PrivilegeClient is a regular tenant account.
	PrivilegeClient Privilege = "client"
	// PrivilegeCounterparty is a tenant account on the counterparty side.
	PrivilegeCounterparty Privilege = "counterparty"
)

// Valid reports whether the privilege is one of the known levels.
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeAdmin, PrivilegeClient, PrivilegeCounterparty:
		return true
	}
	return false
}

// Principal is the resolved actor of a request.
type Principal struct {
	UserID      int64
	UserUUID    string
	RootDirUUID string
	Privilege   Privilege
}

// IsAdmin reports whether the principal has admin privilege.
func (p Principal) IsAdmin() bool {
	return p.Privilege == PrivilegeAdmin
}
