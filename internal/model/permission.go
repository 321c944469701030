package model

// PermissionLevel is the ceiling of actions a grantee may perform on a
// document. A grant always carries exactly one level; absence of a grant
// means no access.
type PermissionLevel string

const (
	PermissionView  PermissionLevel = "view"
	PermissionEdit  PermissionLevel = "edit"
	PermissionAdmin PermissionLevel = "admin"
)

// LinkPermissionCeiling caps the permission a share link may carry. Links
// never grant admin rights; a request for admin is coerced down to this
// level. Kept as an explicit policy so the rule can be revisited in one
// place.
const LinkPermissionCeiling = PermissionEdit

var permissionRank = map[PermissionLevel]int{
	PermissionView:  1,
	PermissionEdit:  2,
	PermissionAdmin: 3,
}

var permissionLabels = map[PermissionLevel]string{
	PermissionView:  "View",
	PermissionEdit:  "Edit",
	PermissionAdmin: "Admin",
}

var permissionDescriptions = map[PermissionLevel]string{
	PermissionView:  "Can view and download",
	PermissionEdit:  "Can view, edit, and upload new versions",
	PermissionAdmin: "Full control including sharing and deletion",
}

func ParsePermission(s string) (PermissionLevel, bool) {
	p := PermissionLevel(s)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

func (p PermissionLevel) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// Rank orders levels for display: view < edit < admin.
func (p PermissionLevel) Rank() int {
	return permissionRank[p]
}

func (p PermissionLevel) Label() string {
	return permissionLabels[p]
}

func (p PermissionLevel) Description() string {
	return permissionDescriptions[p]
}

// CapForLink applies LinkPermissionCeiling.
func (p PermissionLevel) CapForLink() PermissionLevel {
	if p.Rank() > LinkPermissionCeiling.Rank() {
		return LinkPermissionCeiling
	}
	return p
}

// SelectablePermissions returns the levels in display order. Admin is
// excluded unless the context explicitly allows exposing it.
func SelectablePermissions(includeAdmin bool) []PermissionLevel {
	levels := []PermissionLevel{PermissionView, PermissionEdit}
	if includeAdmin {
		levels = append(levels, PermissionAdmin)
	}
	return levels
}
