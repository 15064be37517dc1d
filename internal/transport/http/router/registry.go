package router

import (
	"sort"

	httpez "realestate-crm/internal/transport/http/ez"
)

// 模块可选择实现其中一个或多个接口
type PublicModule interface{ MountPublic(httpez.EZ) } // /api，无需登录
type APIModule interface{ MountAPI(httpez.EZ) }       // /api，需要登录
type AdminModule interface{ MountAdmin(httpez.EZ) }   // /api/admin，需要 admin

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 收集模块并按优先级挂载
type Registry struct {
	public []PublicModule
	api    []APIModule
	admin  []AdminModule
}

// Register 根据类型断言分发；一个模块可以同时出现在多个分组
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(PublicModule); ok {
			r.public = append(r.public, m)
		}
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
	}
}

func (r *Registry) MountPublic(e httpez.EZ) {
	for _, m := range sorted(r.public) {
		m.MountPublic(e)
	}
}

func (r *Registry) MountAPI(e httpez.EZ) {
	for _, m := range sorted(r.api) {
		m.MountAPI(e)
	}
}

func (r *Registry) MountAdmin(e httpez.EZ) {
	for _, m := range sorted(r.admin) {
		m.MountAdmin(e)
	}
}

func sorted[T any](mods []T) []T {
	out := append([]T(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
