package router

import (
	"lifeflow-backend/internal/transport/http/handler"
)

// Module mounts its routes onto the access groups.
type Module interface{ Mount(handler.Groups) }

// Registry collects the modules of one engine; each engine builds its own.
type Registry struct {
	mods []Module
}

func (r *Registry) Register(mods ...Module) {
	r.mods = append(r.mods, mods...)
}

// MountAll mounts modules in registration order.
func (r *Registry) MountAll(g handler.Groups) {
	for _, m := range r.mods {
		m.Mount(g)
	}
}
