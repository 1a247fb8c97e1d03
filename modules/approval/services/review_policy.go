package services

import (
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
)

// Role names as delivered by the gateway.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClerk   = "clerk"
)

// ReviewPolicy decides whether a mutation must pass human review before it
// applies. Pure and total: every (role, action, resource) combination yields
// a boolean and an unknown resource type always requires review.
type ReviewPolicy struct {
	knownResources map[changerequest.ResourceType]struct{}
}

func NewReviewPolicy() *ReviewPolicy {
	return &ReviewPolicy{
		knownResources: map[changerequest.ResourceType]struct{}{
			changerequest.ResourceCustomer:    {},
			changerequest.ResourceProduct:     {},
			changerequest.ResourceReservation: {},
			changerequest.ResourcePayment:     {},
			changerequest.ResourceCost:        {},
		},
	}
}

// RequiresReview reports whether the action must be deferred for review.
// Fail-closed: anything this policy does not recognize goes to review.
func (p *ReviewPolicy) RequiresReview(
	requester changerequest.Requester,
	action changerequest.ActionType,
	resource changerequest.ResourceType,
) bool {
	if _, known := p.knownResources[resource]; !known {
		return true
	}

	switch requester.Role {
	case RoleAdmin:
		return false
	case RoleManager:
		return action == changerequest.ActionDelete
	default:
		return true
	}
}
