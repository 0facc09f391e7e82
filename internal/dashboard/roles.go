package dashboard

import (
	"landregistry/internal/auth/models"
)

// Stat is one headline figure on a role dashboard.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RoleView is the fixed per-role part of the dashboard.
type RoleView struct {
	Role      models.Role `json:"role"`
	RoleLabel string      `json:"role_label"`
	Title     string      `json:"title"`
	Stats     []Stat      `json:"stats"`
}

// Activity is one row of the recent activity list.
type Activity struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// QuickAction links a dashboard button to an API route.
type QuickAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var roleViews = map[models.Role]RoleView{
	models.RoleAdministrator: {
		Title: "Administrator Dashboard",
		Stats: []Stat{
			{"Total Properties", "2,847"},
			{"Active Users", "156"},
			{"Pending Registrations", "23"},
			{"System Health", "98%"},
		},
	},
	models.RoleSurveyor: {
		Title: "Surveyor Dashboard",
		Stats: []Stat{
			{"Surveys Completed", "134"},
			{"Pending Reviews", "8"},
			{"Subdivisions", "45"},
			{"This Month", "12"},
		},
	},
	models.RoleValuer: {
		Title: "Chief Government Valuer Dashboard",
		Stats: []Stat{
			{"Valuations Done", "89"},
			{"Pending Approvals", "15"},
			{"Average Value", "$45K"},
			{"This Quarter", "67"},
		},
	},
	models.RoleRegistrar: {
		Title: "Registrar Dashboard",
		Stats: []Stat{
			{"Titles Registered", "456"},
			{"Transfers Approved", "78"},
			{"Pending Final Review", "12"},
			{"Success Rate", "99.2%"},
		},
	},
}

// sampleActivities are shown until the audit trail has something to say.
var sampleActivities = []Activity{
	{"LT-2024-001", "Land Registration", "Completed", "2024-01-15"},
	{"LT-2024-002", "Ownership Transfer", "Pending", "2024-01-14"},
	{"LT-2024-003", "Land Subdivision", "In Review", "2024-01-13"},
	{"LT-2024-004", "Title Verification", "Completed", "2024-01-12"},
}

var quickActions = []QuickAction{
	{"Register New Land", "/register-land"},
	{"Search Land Records", "/search-records"},
	{"Process Transfer", "/process-transfer"},
	{"Land Subdivision", "/land-subdivision"},
}

// ViewFor returns the dashboard configuration for role.
func ViewFor(role models.Role) (RoleView, bool) {
	v, ok := roleViews[role]
	if !ok {
		return RoleView{}, false
	}
	v.Role = role
	v.RoleLabel = role.Label()
	v.Stats = append([]Stat(nil), v.Stats...)
	return v, true
}
