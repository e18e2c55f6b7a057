package notification

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

// The triggering transitions and their message templates live here so the
// services do not each invent their own wording.

func (d *Dispatcher) NotifyNewApplication(companyID uuid.UUID, projectTitle string, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		companyID,
		fmt.Sprintf("New application received for project «%s»", projectTitle),
		models.NotificationCategoryInfo,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}

func (d *Dispatcher) NotifyApplicationAccepted(applicantID uuid.UUID, projectTitle string, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		applicantID,
		fmt.Sprintf("Your application for «%s» was accepted", projectTitle),
		models.NotificationCategorySuccess,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}

func (d *Dispatcher) NotifyApplicationRejected(applicantID uuid.UUID, projectTitle string, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		applicantID,
		fmt.Sprintf("Your application for «%s» was rejected", projectTitle),
		models.NotificationCategoryWarning,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}

func (d *Dispatcher) NotifyApplicationWithdrawn(companyID uuid.UUID, projectTitle string, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		companyID,
		fmt.Sprintf("An application for «%s» was withdrawn", projectTitle),
		models.NotificationCategoryInfo,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}

func (d *Dispatcher) NotifyWorkSubmitted(companyID uuid.UUID, projectTitle string, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		companyID,
		fmt.Sprintf("Work was submitted for «%s»", projectTitle),
		models.NotificationCategorySuccess,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}

// NotifyApplicationStatusChanged is the catch-all for status updates
// reaching the applicant through the general update path.
func (d *Dispatcher) NotifyApplicationStatusChanged(applicantID uuid.UUID, projectTitle string, status models.ApplicationStatus, applicationID uuid.UUID) (models.Notification, error) {
	return d.Notify(
		applicantID,
		fmt.Sprintf("The status of your application for «%s» changed to %s", projectTitle, status),
		models.NotificationCategoryInfo,
		&RelatedRef{Type: "Application", ID: applicationID},
	)
}
