// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accesscontrol

import (
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

// Decide is the single authorization decision function. It is pure: no
// I/O, no error path - resource fetching happened in the calling
// controller, which also treats "not found" as a distinct outcome before
// ever consulting the policy.
//
// Rule precedence, first match decides:
//  1. state rules that hold regardless of identity (a project with an
//     accepted application cannot be deleted, work cannot be submitted on
//     an application that is not accepted)
//  2. admin bypass
//  3. public read
//  4. ownership match for owner actions
//  5. application cross-ownership rules (read by either side, status
//     transitions by the role-appropriate side)
//  6. role-gated creation
//  7. deny
func Decide(actor Actor, action Action, resource Resource) Decision {
	if d, decided := decideStateRules(action, resource); decided {
		return d
	}

	if actor.Role == models.RoleAdmin {
		return Allow()
	}

	if action == ActionRead && resource.Public {
		return Allow()
	}

	if !actor.Authenticated() {
		return Deny(ReasonUnauthenticated)
	}

	switch resource.Kind {
	case KindUser:
		return decideUser(actor, action, resource)
	case KindProject:
		return decideProject(actor, action, resource)
	case KindApplication:
		return decideApplication(actor, action, resource)
	case KindComment:
		return decideComment(actor, action, resource)
	case KindNotification:
		return decideNotification(actor, action, resource)
	}

	return Deny(ReasonNotOwner)
}

// decideStateRules covers the denials which hold independent of identity.
// They precede even the admin bypass.
func decideStateRules(action Action, resource Resource) (Decision, bool) {
	if resource.Kind == KindProject && action == ActionDelete && resource.State.HasAcceptedApplications {
		return Deny(ReasonInvalidState), true
	}

	if resource.Kind == KindApplication && action == ActionSubmitWork && resource.State.ApplicationStatus != models.ApplicationStatusAccepted {
		// distinct from plain ownership denial: the applicant themselves
		// gets this until the company accepted
		return Deny(ReasonInvalidState), true
	}

	return Decision{}, false
}

func decideUser(actor Actor, action Action, resource Resource) Decision {
	switch action {
	case ActionRead, ActionUpdate:
		if actor.SubjectID == resource.OwnerID {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	case ActionDelete:
		// users are only deleted by an explicit admin action
		return Deny(ReasonWrongRole)
	}
	return Deny(ReasonNotOwner)
}

func decideProject(actor Actor, action Action, resource Resource) Decision {
	if action == ActionCreate {
		if actor.Role == models.RoleCompany {
			return Allow()
		}
		return Deny(ReasonWrongRole)
	}

	// update, delete and status changes belong to the owning company
	if actor.SubjectID == resource.OwnerID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

func decideApplication(actor Actor, action Action, resource Resource) Decision {
	isApplicant := actor.SubjectID == resource.OwnerID
	isProjectOwner := actor.SubjectID == resource.ProjectOwnerID

	switch action {
	case ActionCreate:
		if actor.Role == models.RoleJunior {
			return Allow()
		}
		return Deny(ReasonWrongRole)

	case ActionRead:
		// both sides of the transaction may view it
		if isApplicant || isProjectOwner {
			return Allow()
		}
		return Deny(ReasonNotOwner)

	case ActionUpdate:
		// non-status fields belong to the applicant
		if isApplicant {
			return Allow()
		}
		return Deny(ReasonNotOwner)

	case ActionWithdraw:
		if isApplicant {
			return Allow()
		}
		return Deny(ReasonNotOwner)

	case ActionSubmitWork:
		// state was already checked; only the applicant may submit
		if isApplicant {
			return Allow()
		}
		return Deny(ReasonNotOwner)

	case ActionTransitionStatus:
		switch resource.State.TargetStatus {
		case models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
			if isProjectOwner {
				return Allow()
			}
			return Deny(ReasonNotOwner)
		case models.ApplicationStatusWithdrawn:
			if isApplicant {
				return Allow()
			}
			return Deny(ReasonNotOwner)
		case models.ApplicationStatusPending:
			// resetting to pending happens through the company's general
			// update path
			if isProjectOwner {
				return Allow()
			}
			return Deny(ReasonNotOwner)
		}
		return Deny(ReasonInvalidState)
	}

	return Deny(ReasonNotOwner)
}

func decideComment(actor Actor, action Action, resource Resource) Decision {
	if action == ActionCreate {
		// any authenticated user viewing a project may comment
		return Allow()
	}

	if actor.SubjectID == resource.OwnerID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

func decideNotification(actor Actor, action Action, resource Resource) Decision {
	if action == ActionCreate {
		// notifications are created exclusively by the dispatcher
		return Deny(ReasonWrongRole)
	}

	if actor.SubjectID == resource.OwnerID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}
