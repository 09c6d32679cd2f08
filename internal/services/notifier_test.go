package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"love-manager-backend/internal/models"

	"github.com/sideshow/apns2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePusher struct {
	sent []*apns2.Notification
	err  error
}

func (p *fakePusher) PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error) {
	p.sent = append(p.sent, n)
	if p.err != nil {
		return nil, p.err
	}
	return &apns2.Response{StatusCode: http.StatusOK}, nil
}

func TestAPNsNotifierPushesToEveryDevice(t *testing.T) {
	pusher := &fakePusher{}
	n := &APNsNotifier{client: pusher, topic: "com.example.love", deviceTokens: []string{"d1", "d2"}}

	n.NotifyRegistration(context.Background(), models.Partner{ID: "p1", Name: "An"})

	require.Len(t, pusher.sent, 2)
	assert.Equal(t, "d1", pusher.sent[0].DeviceToken)
	assert.Equal(t, "d2", pusher.sent[1].DeviceToken)
	assert.Equal(t, "com.example.love", pusher.sent[0].Topic)

	body, err := pusher.sent[0].MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), "New registration: An")
	assert.Contains(t, string(body), `"partnerId":"p1"`)
}

func TestAPNsNotifierSwallowsFailures(t *testing.T) {
	pusher := &fakePusher{err: errors.New("network down")}
	n := &APNsNotifier{client: pusher, deviceTokens: []string{"d1", "d2"}}

	assert.NotPanics(t, func() {
		n.NotifyRegistration(context.Background(), models.Partner{ID: "p1", Name: "An"})
	})
	assert.Len(t, pusher.sent, 2)
}
