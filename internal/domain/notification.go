package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

func (c Channel) Valid() bool {
	return c == ChannelInApp || c == ChannelEmail || c == ChannelPush
}

type Audience string

const (
	AudienceAll          Audience = "all"
	AudienceParticipants Audience = "participants"
	AudienceAdmins       Audience = "admins"
	AudienceUsers        Audience = "users"
)

func (a Audience) Valid() bool {
	return a == AudienceAll || a == AudienceParticipants || a == AudienceAdmins || a == AudienceUsers
}

type NotificationStatus string

const (
	NotificationDraft NotificationStatus = "draft"
	NotificationSent  NotificationStatus = "sent"
)

type Notification struct {
	ID       string
	Title    string
	Message  string
	URL      string
	Channels []Channel
	Audience Audience
	// UserIDs is only used with AudienceUsers.
	UserIDs []string

	Status    NotificationStatus
	CreatedBy string
	CreatedAt time.Time
	SentAt    *time.Time
	Report    *DeliveryReport
}

func NewNotification(createdBy, title, message, url string, channels []Channel, audience Audience, userIDs []string, now time.Time) (*Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	url = strings.TrimSpace(url)

	if title == "" || len(title) > 120 {
		return nil, ErrValidation("title is required and must be <= 120 chars")
	}
	if message == "" || len(message) > 2000 {
		return nil, ErrValidation("message is required and must be <= 2000 chars")
	}
	if len(channels) == 0 {
		return nil, ErrValidation("at least one channel is required")
	}
	seen := map[Channel]bool{}
	uniq := make([]Channel, 0, len(channels))
	for _, c := range channels {
		if !c.Valid() {
			return nil, ErrValidationMeta("invalid channel", map[string]string{"channels": "must be in_app, email or push"})
		}
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	if !audience.Valid() {
		return nil, ErrValidationMeta("invalid audience", map[string]string{"audience": "must be all, participants, admins or users"})
	}
	if audience == AudienceUsers && len(userIDs) == 0 {
		return nil, ErrValidation("user_ids is required when audience is users")
	}

	return &Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		URL:       url,
		Channels:  uniq,
		Audience:  audience,
		UserIDs:   userIDs,
		Status:    NotificationDraft,
		CreatedBy: createdBy,
		CreatedAt: now.UTC(),
	}, nil
}

func (n *Notification) MarkSent(report DeliveryReport, now time.Time) {
	t := now.UTC()
	n.Status = NotificationSent
	n.SentAt = &t
	n.Report = &report
}

type Recipient struct {
	UserID string
	Name   string
	Email  string
}

type PushSubscription struct {
	ID       string
	UserID   string
	Endpoint string
	P256dh   string
	Auth     string
}

type InboxItem struct {
	ID             string
	UserID         string
	NotificationID string
	Title          string
	Message        string
	URL            string
	Read           bool
	CreatedAt      time.Time
}

type ChannelStats struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type DeliveryFailure struct {
	UserID  string  `json:"user_id"`
	Channel Channel `json:"channel"`
	Error   string  `json:"error"`
}

// DeliveryReport summarises one fan-out pass.
type DeliveryReport struct {
	Recipients int                      `json:"recipients"`
	Channels   map[Channel]ChannelStats `json:"channels"`
	Failures   []DeliveryFailure        `json:"failures,omitempty"`
}

func NewDeliveryReport(recipients int, channels []Channel) DeliveryReport {
	r := DeliveryReport{Recipients: recipients, Channels: make(map[Channel]ChannelStats, len(channels))}
	for _, c := range channels {
		r.Channels[c] = ChannelStats{}
	}
	return r
}

func (r *DeliveryReport) Sent(c Channel) {
	s := r.Channels[c]
	s.Sent++
	r.Channels[c] = s
}

func (r *DeliveryReport) Skipped(c Channel) {
	s := r.Channels[c]
	s.Skipped++
	r.Channels[c] = s
}

func (r *DeliveryReport) Failed(c Channel, userID string, err error) {
	s := r.Channels[c]
	s.Failed++
	r.Channels[c] = s
	r.Failures = append(r.Failures, DeliveryFailure{UserID: userID, Channel: c, Error: err.Error()})
}
