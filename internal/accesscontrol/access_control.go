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
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type Action string

const (
	ActionRead             Action = "read"
	ActionCreate           Action = "create"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionTransitionStatus Action = "transition-status"
	ActionWithdraw         Action = "withdraw"
	ActionSubmitWork       Action = "submit-work"
)

type ResourceKind string

const (
	KindUser         ResourceKind = "user"
	KindProject      ResourceKind = "project"
	KindApplication  ResourceKind = "application"
	KindComment      ResourceKind = "comment"
	KindNotification ResourceKind = "notification"
)

// Reason distinguishes the deny classes so that the transport layer can
// map them onto 401 vs 403 vs invalid-state semantics. The policy itself
// stays transport agnostic.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong-role"
	ReasonNotOwner        Reason = "not-owner"
	ReasonInvalidState    Reason = "invalid-state"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Actor is the authenticated caller. The zero value (NoActor) represents
// an unauthenticated request.
type Actor struct {
	SubjectID uuid.UUID
	Role      models.Role
}

var NoActor = Actor{}

func (a Actor) Authenticated() bool {
	return a.SubjectID != uuid.Nil
}

// StateFacts carries everything the state dependent rules need. The
// calling controller resolves these from the persistence layer up front -
// the policy performs no I/O.
type StateFacts struct {
	ApplicationStatus       models.ApplicationStatus
	TargetStatus            models.ApplicationStatus
	HasAcceptedApplications bool
}

// Resource is the policy's view of a target resource: its kind, the owner
// reference(s) and the state facts the rules depend on. For applications
// both sides of the transaction are carried - OwnerID is the applicant,
// ProjectOwnerID the owning company of the referenced project.
type Resource struct {
	Kind           ResourceKind
	OwnerID        uuid.UUID
	ProjectOwnerID uuid.UUID
	Public         bool
	State          StateFacts
}

func UserResource(u models.User) Resource {
	return Resource{Kind: KindUser, OwnerID: u.ID, Public: true}
}

func ProjectResource(p models.Project, hasAcceptedApplications bool) Resource {
	return Resource{
		Kind:    KindProject,
		OwnerID: p.CompanyID,
		Public:  true,
		State:   StateFacts{HasAcceptedApplications: hasAcceptedApplications},
	}
}

func ApplicationResource(a models.Application, projectCompanyID uuid.UUID) Resource {
	return Resource{
		Kind:           KindApplication,
		OwnerID:        a.ApplicantID,
		ProjectOwnerID: projectCompanyID,
		State:          StateFacts{ApplicationStatus: a.Status},
	}
}

func (r Resource) WithTargetStatus(status models.ApplicationStatus) Resource {
	r.State.TargetStatus = status
	return r
}

func CommentResource(c models.Comment) Resource {
	return Resource{Kind: KindComment, OwnerID: c.AuthorID, Public: true}
}

func NotificationResource(n models.Notification) Resource {
	return Resource{Kind: KindNotification, OwnerID: n.RecipientID}
}
