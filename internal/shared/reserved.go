package shared

// VisitorUserID is the well-known unauthenticated default principal.
const VisitorUserID = "visitor"

// Status values shared by all entities. "1" means enabled, "2" disabled.
const (
	StatusEnabled  = "1"
	StatusDisabled = "2"
)

// Role ids that grant the composable admin check.
const (
	RoleAdmin = "admin"
	RoleRoot  = "root"
)

// RoleVisitor is the default role granted when signup names none.
const RoleVisitor = "visitor"

// ReservedUserIDs cannot be deleted through the API.
func ReservedUserIDs() []string {
	return []string{"root", VisitorUserID}
}

// ReservedRoleIDs cannot be deleted through the API.
func ReservedRoleIDs() []string {
	return []string{RoleRoot, RoleAdmin, RoleVisitor}
}

// IsReservedUser reports whether the user id is reserved.
func IsReservedUser(id string) bool {
	for _, r := range ReservedUserIDs() {
		if r == id {
			return true
		}
	}
	return false
}

// IsReservedRole reports whether the role id is reserved.
func IsReservedRole(id string) bool {
	for _, r := range ReservedRoleIDs() {
		if r == id {
			return true
		}
	}
	return false
}
