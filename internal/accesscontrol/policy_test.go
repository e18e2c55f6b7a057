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
	"testing"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func junior() Actor {
	return Actor{SubjectID: uuid.New(), Role: models.RoleJunior}
}

func company() Actor {
	return Actor{SubjectID: uuid.New(), Role: models.RoleCompany}
}

func admin() Actor {
	return Actor{SubjectID: uuid.New(), Role: models.RoleAdmin}
}

func projectOf(owner Actor) models.Project {
	p := models.Project{CompanyID: owner.SubjectID}
	p.ID = uuid.New()
	return p
}

func applicationOf(applicant Actor, project models.Project, status models.ApplicationStatus) models.Application {
	a := models.Application{ProjectID: project.ID, ApplicantID: applicant.SubjectID, Status: status}
	a.ID = uuid.New()
	return a
}

func TestDecideProject(t *testing.T) {
	owner := company()
	project := projectOf(owner)

	t.Run("anyone may read a project, even unauthenticated", func(t *testing.T) {
		assert.True(t, Decide(NoActor, ActionRead, ProjectResource(project, false)).Allowed)
		assert.True(t, Decide(junior(), ActionRead, ProjectResource(project, false)).Allowed)
	})

	t.Run("only companies may create projects", func(t *testing.T) {
		assert.True(t, Decide(owner, ActionCreate, Resource{Kind: KindProject}).Allowed)

		d := Decide(junior(), ActionCreate, Resource{Kind: KindProject})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonWrongRole, d.Reason)

		d = Decide(NoActor, ActionCreate, Resource{Kind: KindProject})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonUnauthenticated, d.Reason)
	})

	t.Run("only the owning company may update or delete", func(t *testing.T) {
		assert.True(t, Decide(owner, ActionUpdate, ProjectResource(project, false)).Allowed)
		assert.True(t, Decide(owner, ActionDelete, ProjectResource(project, false)).Allowed)

		other := company()
		d := Decide(other, ActionUpdate, ProjectResource(project, false))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("a project with an accepted application cannot be deleted by anyone", func(t *testing.T) {
		d := Decide(owner, ActionDelete, ProjectResource(project, true))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonInvalidState, d.Reason)

		// not even by an admin - the state rule precedes the bypass
		d = Decide(admin(), ActionDelete, ProjectResource(project, true))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonInvalidState, d.Reason)
	})

	t.Run("admins may delete any project without accepted applications", func(t *testing.T) {
		assert.True(t, Decide(admin(), ActionDelete, ProjectResource(project, false)).Allowed)
	})
}

func TestDecideApplication(t *testing.T) {
	owner := company()
	applicant := junior()
	project := projectOf(owner)

	t.Run("only juniors may apply", func(t *testing.T) {
		create := Resource{Kind: KindApplication, ProjectOwnerID: owner.SubjectID}
		assert.True(t, Decide(applicant, ActionCreate, create).Allowed)

		d := Decide(company(), ActionCreate, create)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonWrongRole, d.Reason)
	})

	t.Run("both sides may read, third parties may not", func(t *testing.T) {
		app := applicationOf(applicant, project, models.ApplicationStatusPending)
		resource := ApplicationResource(app, project.CompanyID)

		assert.True(t, Decide(applicant, ActionRead, resource).Allowed)
		assert.True(t, Decide(owner, ActionRead, resource).Allowed)
		assert.True(t, Decide(admin(), ActionRead, resource).Allowed)

		d := Decide(junior(), ActionRead, resource)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("accept and reject belong to the project owner", func(t *testing.T) {
		app := applicationOf(applicant, project, models.ApplicationStatusPending)
		resource := ApplicationResource(app, project.CompanyID)

		assert.True(t, Decide(owner, ActionTransitionStatus, resource.WithTargetStatus(models.ApplicationStatusAccepted)).Allowed)
		assert.True(t, Decide(owner, ActionTransitionStatus, resource.WithTargetStatus(models.ApplicationStatusRejected)).Allowed)

		// the applicant cannot accept their own application
		d := Decide(applicant, ActionTransitionStatus, resource.WithTargetStatus(models.ApplicationStatusAccepted))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("withdraw belongs to the applicant", func(t *testing.T) {
		app := applicationOf(applicant, project, models.ApplicationStatusPending)
		resource := ApplicationResource(app, project.CompanyID)

		assert.True(t, Decide(applicant, ActionWithdraw, resource).Allowed)
		assert.True(t, Decide(applicant, ActionTransitionStatus, resource.WithTargetStatus(models.ApplicationStatusWithdrawn)).Allowed)

		d := Decide(owner, ActionWithdraw, resource)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("submit-work requires an accepted application", func(t *testing.T) {
		pending := ApplicationResource(applicationOf(applicant, project, models.ApplicationStatusPending), project.CompanyID)

		// even the applicant gets invalid-state before acceptance
		d := Decide(applicant, ActionSubmitWork, pending)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonInvalidState, d.Reason)

		// the state rule holds for admins too
		d = Decide(admin(), ActionSubmitWork, pending)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonInvalidState, d.Reason)

		accepted := ApplicationResource(applicationOf(applicant, project, models.ApplicationStatusAccepted), project.CompanyID)
		assert.True(t, Decide(applicant, ActionSubmitWork, accepted).Allowed)

		// accepted but not yours
		d = Decide(owner, ActionSubmitWork, accepted)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("general updates belong to the applicant", func(t *testing.T) {
		app := applicationOf(applicant, project, models.ApplicationStatusPending)
		resource := ApplicationResource(app, project.CompanyID)

		assert.True(t, Decide(applicant, ActionUpdate, resource).Allowed)

		d := Decide(owner, ActionUpdate, resource)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})
}

func TestDecideUser(t *testing.T) {
	someone := junior()
	target := models.User{Role: models.RoleJunior}
	target.ID = someone.SubjectID

	t.Run("profiles are publicly readable", func(t *testing.T) {
		assert.True(t, Decide(NoActor, ActionRead, UserResource(target)).Allowed)
	})

	t.Run("only the user themselves may update", func(t *testing.T) {
		assert.True(t, Decide(someone, ActionUpdate, UserResource(target)).Allowed)

		d := Decide(junior(), ActionUpdate, UserResource(target))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("user deletion is admin only", func(t *testing.T) {
		assert.True(t, Decide(admin(), ActionDelete, UserResource(target)).Allowed)

		d := Decide(someone, ActionDelete, UserResource(target))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonWrongRole, d.Reason)
	})
}

func TestDecideComment(t *testing.T) {
	author := junior()
	c := models.Comment{AuthorID: author.SubjectID}
	c.ID = uuid.New()

	t.Run("any authenticated user may comment", func(t *testing.T) {
		assert.True(t, Decide(author, ActionCreate, Resource{Kind: KindComment}).Allowed)
		assert.True(t, Decide(company(), ActionCreate, Resource{Kind: KindComment}).Allowed)

		d := Decide(NoActor, ActionCreate, Resource{Kind: KindComment})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonUnauthenticated, d.Reason)
	})

	t.Run("edit and delete belong to the author, admins moderate", func(t *testing.T) {
		assert.True(t, Decide(author, ActionUpdate, CommentResource(c)).Allowed)
		assert.True(t, Decide(author, ActionDelete, CommentResource(c)).Allowed)
		assert.True(t, Decide(admin(), ActionDelete, CommentResource(c)).Allowed)

		d := Decide(junior(), ActionDelete, CommentResource(c))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})
}

func TestDecideNotification(t *testing.T) {
	recipient := junior()
	n := models.Notification{RecipientID: recipient.SubjectID}
	n.ID = uuid.New()

	t.Run("only the recipient may read or delete", func(t *testing.T) {
		assert.True(t, Decide(recipient, ActionRead, NotificationResource(n)).Allowed)
		assert.True(t, Decide(recipient, ActionDelete, NotificationResource(n)).Allowed)

		d := Decide(junior(), ActionRead, NotificationResource(n))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})

	t.Run("nobody creates notifications through the policy", func(t *testing.T) {
		d := Decide(recipient, ActionCreate, Resource{Kind: KindNotification})
		assert.False(t, d.Allowed)
	})
}
