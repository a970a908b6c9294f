// Package authz is the authorization decision layer. It classifies actions
// into tiers and decides, per (actor, action, resource) triple, whether the
// acting identity may proceed. It is a pure decision function: no side
// effects, no I/O beyond the role flags and author reference handed in.
package authz

import "github.com/gofiber/fiber/v2"

// Tier classifies an action by its authorization requirements.
type Tier int

const (
	// TierRead covers safe, non-mutating actions (list/retrieve).
	TierRead Tier = iota
	// TierEngage covers like/dislike toggles.
	TierEngage
	// TierWrite covers create/update/partial-update/delete.
	TierWrite
	// TierAdmin covers anything not in the tiers above.
	TierAdmin
)

// Reason is a machine-distinguishable explanation for a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonNotOwner         Reason = "not_owner"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Actor is the identity performing a request. A zero ID means anonymous.
type Actor struct {
	ID    uint
	Admin bool
}

// Authenticated reports whether the actor carries a verified identity.
func (a Actor) Authenticated() bool {
	return a.ID != 0
}

// Resource describes the owned entity being acted upon. A nil *Resource in
// Authorize means the action targets no existing resource (creation).
type Resource struct {
	AuthorID uint
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Authorize decides whether actor may perform an action of the given tier
// against res. Check ordering is part of the contract: an unauthenticated
// actor is always denied with ReasonUnauthenticated, never with an
// ownership or role reason.
func Authorize(actor Actor, tier Tier, res *Resource) Decision {
	switch tier {
	case TierRead:
		return allow()
	case TierEngage:
		if !actor.Authenticated() {
			return deny(ReasonUnauthenticated)
		}
		return allow()
	case TierWrite:
		if !actor.Authenticated() {
			return deny(ReasonUnauthenticated)
		}
		if actor.Admin {
			return allow()
		}
		if res == nil || res.AuthorID == actor.ID {
			return allow()
		}
		return deny(ReasonNotOwner)
	default:
		if !actor.Authenticated() {
			return deny(ReasonUnauthenticated)
		}
		if !actor.Admin {
			return deny(ReasonInsufficientRole)
		}
		return allow()
	}
}

// ClassifyAction maps a viewset-style action name onto its tier. Unknown
// actions land in the admin tier, so anything unclassified stays locked
// down.
func ClassifyAction(action string) Tier {
	switch action {
	case "list", "retrieve":
		return TierRead
	case "like", "dislike", "subscribe":
		return TierEngage
	case "create", "update", "partial_update", "destroy":
		return TierWrite
	default:
		return TierAdmin
	}
}

// HTTPStatus maps a denial reason onto the HTTP status to surface:
// 401 when the actor is unauthenticated, 403 when merely unauthorized.
func HTTPStatus(r Reason) int {
	if r == ReasonUnauthenticated {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusForbidden
}
