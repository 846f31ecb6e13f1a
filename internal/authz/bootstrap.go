package authz

import "fmt"

// RoleSeed 预置角色
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色矩阵
// 超级管理员不走策略判定；其余管理员至少需要 readonly_auditor 才能进入后台
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/payouts/:id/submit", Action: "POST"},
				{Object: "/admin/payouts/:id/complete", Action: "POST"},
				{Object: "/admin/payouts/:id/fail", Action: "POST"},
				{Object: "/admin/payouts/:id/retry", Action: "POST"},
				{Object: "/admin/payouts/:id/cancel", Action: "POST"},
				{Object: "/admin/payouts/:id/reverse", Action: "POST"},
				{Object: "/admin/vendors/:id/balance-adjustments", Action: "POST"},
				{Object: "/admin/commission/default-rate", Action: "PUT"},
				{Object: "/admin/vendors/:id/commission-rate", Action: "*"},
				{Object: "/admin/categories/:id/commission-rate", Action: "*"},
			},
		},
		{
			Role:     "operations",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/orders", Action: "POST"},
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/orders/:id/total", Action: "PATCH"},
				{Object: "/admin/low-stock/scan", Action: "POST"},
				{Object: "/admin/settings/low-stock", Action: "PUT"},
			},
		},
	}
}

// BootstrapBuiltinRoles 登记预置角色与策略，重复执行不会产生重复规则
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
			return fmt.Errorf("register builtin role %s failed: %w", role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role %s to %s failed: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy for %s failed: %w", role, err)
			}
		}
	}
	return nil
}
