package guard

import (
	"strings"

	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/users"
)

// View path constants
const (
	RouteRoot               = "/"
	RouteLogin              = "/login"
	RouteUnauthorized       = "/unauthorized"
	RoutePatientDashboard   = "/patient/dashboard"
	RouteClinicDashboard    = "/clinic/dashboard"
	RouteRegulatorDashboard = "/regulator/dashboard"
)

// Rule grants access to one view path.
type Rule struct {
	Path         string
	Public       bool             // Rendered without a session
	AllowedRoles []users.RoleType // Empty means any authenticated role
}

// Table is an ordered, immutable set of rules. The first rule whose path
// matches wins; unmatched paths redirect to login.
type Table struct {
	rules []Rule
}

// NewTable copies rules into a table.
func NewTable(rules ...Rule) Table {
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		copied[i] = Rule{
			Path:         normalize(r.Path),
			Public:       r.Public,
			AllowedRoles: append([]users.RoleType(nil), r.AllowedRoles...),
		}
	}
	return Table{rules: copied}
}

// DefaultTable is the marketplace web client's route table.
func DefaultTable() Table {
	return NewTable(
		Rule{Path: RouteLogin, Public: true},
		Rule{Path: RouteUnauthorized, Public: true},
		Rule{Path: RoutePatientDashboard, AllowedRoles: []users.RoleType{users.RolePatient}},
		Rule{Path: RouteClinicDashboard, AllowedRoles: []users.RoleType{users.RoleClinic}},
		Rule{Path: RouteRegulatorDashboard, AllowedRoles: []users.RoleType{users.RoleRegulator}},
	)
}

// Rules returns a copy of the table's rules.
func (t Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Lookup returns the first rule matching path.
func (t Table) Lookup(path string) (Rule, bool) {
	path = normalize(path)
	for _, r := range t.rules {
		if r.Path == path {
			return r, true
		}
	}
	return Rule{}, false
}

// Resolve decides the navigation to path for session.
func (t Table) Resolve(path string, session sessions.Session) Outcome {
	rule, ok := t.Lookup(path)
	if !ok {
		return Outcome{Decision: RedirectLogin, Path: RouteLogin}
	}
	if rule.Public {
		return Outcome{Decision: Permitted, Path: rule.Path}
	}

	switch d := Decide(session, rule.AllowedRoles); d {
	case RedirectLogin:
		return Outcome{Decision: d, Path: RouteLogin}
	case RedirectUnauthorized:
		return Outcome{Decision: d, Path: RouteUnauthorized}
	default:
		return Outcome{Decision: d, Path: rule.Path}
	}
}

var landingRoutes = map[users.RoleType]string{
	users.RolePatient:   RoutePatientDashboard,
	users.RoleClinic:    RouteClinicDashboard,
	users.RoleRegulator: RouteRegulatorDashboard,
}

// LandingRoute is where a user of role goes after login. Unknown roles land
// on the root path.
func LandingRoute(role users.RoleType) string {
	if route, ok := landingRoutes[role]; ok {
		return route
	}
	return RouteRoot
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return RouteRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = RouteRoot
		}
	}
	return path
}
