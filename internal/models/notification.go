// internal/models/notification.go
package models

const (
	NotificationStatusSent     = "sent"
	NotificationStatusPartial  = "partial"
	NotificationStatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// ChannelResult reports one delivery attempt.
type ChannelResult struct {
	Channel   string `json:"channel"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
