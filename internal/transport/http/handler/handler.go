// Package handler adapts services to HTTP. Each handler mounts its own
// routes on the guard-specific groups it is given.
package handler

import (
	"lifeflow-backend/internal/transport/http/ez"
)

// Groups are the route groups by access level.
type Groups struct {
	Public  ez.EZ // no session
	Session ez.EZ // valid session cookie
	Staff   ez.EZ // session + admin or volunteer
	Admin   ez.EZ // session + admin
}

type empty struct{}

type okOut struct {
	Success bool `json:"success"`
}
