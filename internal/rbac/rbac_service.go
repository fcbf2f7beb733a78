package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// rbacModel matches a request (role, resource, action) against the policy
// table. Roles are exact; there is no inheritance between them.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// defaultPolicies mirrors the role gates of each feature surface: employees
// file and read their own leave, managers decide their team's, admins manage
// users and the holiday calendar.
var defaultPolicies = [][]string{
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "holidays", "read"},
	{RoleEmployee, "dashboard", "employee"},
	{RoleEmployee, "assistant", "chat"},

	{RoleManager, "leave", "read"},
	{RoleManager, "leave", "decide"},
	{RoleManager, "holidays", "read"},
	{RoleManager, "dashboard", "manager"},
	{RoleManager, "assistant", "chat"},

	{RoleAdmin, "users", "manage"},
	{RoleAdmin, "users", "read"},
	{RoleAdmin, "holidays", "read"},
	{RoleAdmin, "holidays", "manage"},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}
