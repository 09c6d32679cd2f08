package services

import (
	"context"
	"fmt"
	"time"

	"love-manager-backend/internal/config"
	"love-manager-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

const pushTimeout = 5 * time.Second

// Notifier tells the admin about new public registrations. Implementations
// log delivery failures instead of returning them.
type Notifier interface {
	NotifyRegistration(ctx context.Context, partner models.Partner)
}

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) NotifyRegistration(context.Context, models.Partner) {}

// pusher is the subset of *apns2.Client the notifier uses
type pusher interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

// APNsNotifier pushes registration alerts to the configured admin devices
type APNsNotifier struct {
	client       pusher
	topic        string
	deviceTokens []string
}

// NewAPNsNotifier creates a token-authenticated APNs client from cfg
func NewAPNsNotifier(cfg config.APNsConfig) (*APNsNotifier, error) {
	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNsNotifier{
		client:       client,
		topic:        cfg.Topic,
		deviceTokens: cfg.DeviceTokens,
	}, nil
}

// NotifyRegistration sends one alert per device token
func (n *APNsNotifier) NotifyRegistration(ctx context.Context, partner models.Partner) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	body := payload.NewPayload().
		AlertTitle("New registration").
		AlertBody(fmt.Sprintf("New registration: %s", partner.Name)).
		Sound("default").
		Custom("partnerId", partner.ID)

	for _, deviceToken := range n.deviceTokens {
		res, err := n.client.PushWithContext(ctx, &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       n.topic,
			Payload:     body,
		})
		if err != nil {
			log.Error().Err(err).Str("partner_id", partner.ID).Msg("Failed to push registration notification")
			continue
		}
		if !res.Sent() {
			log.Warn().
				Int("status", res.StatusCode).
				Str("reason", res.Reason).
				Str("partner_id", partner.ID).
				Msg("APNs rejected registration notification")
		}
	}
}
