// Package identity carries the (tenant, actor, role) triple resolved for a request.
//
// Handlers resolve the Actor once from the request context and pass it explicitly
// into every service call; services never read tenant or role from the context.
package identity

import (
	"context"
	"slices"
	"stayops/shared/constant"
	"stayops/shared/failure"
)

type actorKey struct{}

// ActorAutomation is the actor id used for service-to-service calls without an explicit actor header.
const ActorAutomation = "automation"

var roles = []string{
	constant.RoleAdmin,
	constant.RoleManager,
	constant.RoleStaff,
	constant.RoleHousekeeping,
	constant.RoleViewer,
}

type Actor struct {
	TenantID string `json:"tenant_id"`
	ActorID  string `json:"actor_id"`
	Role     string `json:"role"`
}

func New(tenantID, actorID, role string) Actor {
	return Actor{
		TenantID: tenantID,
		ActorID:  actorID,
		Role:     role,
	}
}

// IsKnownRole reports whether role is one of the roles the service recognises.
func IsKnownRole(role string) bool {
	return slices.Contains(roles, role)
}

// Valid reports whether the actor carries enough identity to scope a call.
func (a Actor) Valid() bool {
	return a.TenantID != constant.Empty && a.ActorID != constant.Empty
}

// CanMutate reports whether the role may perform mutating operations.
func (a Actor) CanMutate() bool {
	return a.Role != constant.RoleViewer && IsKnownRole(a.Role)
}

// RequireMutation must run before any entity is loaded by a mutating operation.
func (a Actor) RequireMutation() error {
	if !a.Valid() {
		return failure.Unauthorized("missing identity context") // nolint:wrapcheck
	}

	if !a.CanMutate() {
		return failure.Forbidden("role " + a.roleName() + " cannot modify data") // nolint:wrapcheck
	}

	return nil
}

// RequireRead checks only that the call is scoped to a tenant.
func (a Actor) RequireRead() error {
	if !a.Valid() {
		return failure.Unauthorized("missing identity context") // nolint:wrapcheck
	}

	return nil
}

func (a Actor) roleName() string {
	if a.Role == constant.Empty {
		return "(none)"
	}

	return a.Role
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, actorKey{}, actor)
	ctx = context.WithValue(ctx, constant.ContextKeyTenantID, actor.TenantID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.ActorID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)

	return ctx
}

// FromContext returns the actor stored by the auth middleware.
func FromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || !actor.Valid() {
		return Actor{}, failure.Unauthorized("missing identity context") // nolint:wrapcheck
	}

	return actor, nil
}
