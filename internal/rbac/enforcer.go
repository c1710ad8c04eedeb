// Package rbac performs the single capability check every operation goes
// through: a fixed three-role model (employee, hr, admin) enforced once at
// route entry instead of inline conditionals per handler.
package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies lists what each role may do. hr inherits employee, admin
// inherits hr via the grouping rules below.
var policies = [][3]string{
	{"employee", "leave", "create"},
	{"employee", "leave", "read"},
	{"employee", "leave", "edit"},
	{"employee", "leave", "cancel"},
	{"employee", "overtime", "create"},
	{"employee", "overtime", "read"},
	{"employee", "overtime", "edit"},
	{"employee", "overtime", "cancel"},
	{"employee", "official_business", "create"},
	{"employee", "official_business", "read"},
	{"employee", "official_business", "edit"},
	{"employee", "official_business", "cancel"},
	{"employee", "attendance", "clock"},
	{"employee", "attendance", "read"},
	{"employee", "credit", "read"},
	{"employee", "dtr", "read"},

	{"hr", "leave", "approve"},
	{"hr", "leave", "reject"},
	{"hr", "leave", "read_all"},
	{"hr", "overtime", "approve"},
	{"hr", "overtime", "reject"},
	{"hr", "overtime", "read_all"},
	{"hr", "official_business", "approve"},
	{"hr", "official_business", "reject"},
	{"hr", "official_business", "read_all"},
	{"hr", "attendance", "read_all"},
	{"hr", "credit", "read_all"},
	{"hr", "dtr", "read_all"},
	{"hr", "dtr", "export"},

	{"admin", "leave", "revoke"},
	{"admin", "credit", "reset"},
}

var roleInheritance = [][2]string{
	{"hr", "employee"},
	{"admin", "hr"},
}

type casbinEnforcer struct {
	e *casbin.Enforcer
}

func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	return &casbinEnforcer{e: e}, nil
}

func (c *casbinEnforcer) Enforce(role, resource, action string) (bool, error) {
	return c.e.Enforce(role, resource, action)
}
