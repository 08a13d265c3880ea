// internal/workers/assessment/notify-assessment-outcome/models.go
package notifyassessmentoutcome

import (
	"fra-workers/internal/eligibility"
	"fra-workers/internal/models"
)

type Input struct {
	AssessmentID  string              `json:"assessmentId"`
	CommunityName string              `json:"communityName"`
	ContactEmail  string              `json:"contactEmail,omitempty"`
	ContactPhone  string              `json:"contactPhone,omitempty"`
	Assessment    *eligibility.Result `json:"assessment"`
}

type Output struct {
	NotificationID string                 `json:"notificationId"`
	Status         string                 `json:"status"` // sent, partial, disabled
	Channels       []models.ChannelResult `json:"channels"`
	SentAt         string                 `json:"sentAt"`
}
