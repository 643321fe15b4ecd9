package state

// RoleHierarchy is a strict total order over roles. The weight doubles as the
// clearance level assigned when a role is granted.
var RoleHierarchy = map[Role]int{
	RoleAdmin:     5,
	RoleModerator: 4,
	RoleOfficer:   3,
	RoleEnlisted:  2,
	RolePending:   1,
}

var ClearanceLabels = map[int]string{
	1: "UNCLASSIFIED",
	2: "RESTRICTED",
	3: "CONFIDENTIAL",
	4: "SECRET",
	5: "TOP SECRET",
}

var AlertLabels = map[AlertLevel]string{
	AlertNotice:   "NOTICE",
	AlertElevated: "ELEVATED READINESS",
	AlertHigh:     "HIGH ALERT",
	AlertLockdown: "STRATEGIC LOCKDOWN",
}

var Ranks = []string{
	"Air Marshal",
	"Air Vice Marshal",
	"Air Commodore",
	"Group Captain",
	"Wing Commander",
	"Squadron Leader",
	"Flight Lieutenant",
	"Flying Officer",
	"Pilot Officer",
	"Warrant Officer",
	"Flight Sergeant",
	"Sergeant",
	"Corporal",
	"Leading Aircraftman",
	"Aircraftman",
}

// ValidRole reports whether r is a known role name.
func ValidRole(r Role) bool {
	_, ok := RoleHierarchy[r]
	return ok
}

// ValidAlertLevel reports whether l is a known alert level.
func ValidAlertLevel(l AlertLevel) bool {
	_, ok := AlertLabels[l]
	return ok
}
