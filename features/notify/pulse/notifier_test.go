package pulse

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	streamopts "goa.design/pulse/streaming/options"

	clientspulse "github.com/dishpatch/dishpatch/features/notify/pulse/clients/pulse"
	"github.com/dishpatch/dishpatch/orders"
)

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Options{})
	require.EqualError(t, err, "pulse client is required")
}

func TestSendPublishesEnvelope(t *testing.T) {
	cli := newFakeClient()
	n, err := New(Options{Client: cli})
	require.NoError(t, err)

	err = n.Send(context.Background(), orders.Notification{
		Channel:   orders.ChannelPush,
		Recipient: "user-1",
		OrderID:   "order-123",
		Message:   "ORDER_ACCEPTED",
	})
	require.NoError(t, err)

	stream := cli.streams["orders/order-123"]
	require.NotNil(t, stream)
	require.Len(t, stream.added, 1)
	require.Equal(t, "ORDER_ACCEPTED", stream.added[0].event)

	var env envelope
	require.NoError(t, json.Unmarshal(stream.added[0].payload, &env))
	require.Equal(t, "PUSH", env.Channel)
	require.Equal(t, "user-1", env.Recipient)
	require.Equal(t, "order-123", env.OrderID)
	require.Equal(t, "ORDER_ACCEPTED", env.Message)
	require.False(t, env.Timestamp.IsZero())
}

func TestSendCustomStreamID(t *testing.T) {
	cli := newFakeClient()
	n, err := New(Options{
		Client:   cli,
		StreamID: func(notif orders.Notification) string { return "vendor/" + notif.Recipient },
	})
	require.NoError(t, err)

	err = n.Send(context.Background(), orders.Notification{
		Channel:   orders.ChannelPush,
		Recipient: "vendor-9",
		OrderID:   "order-1",
		Message:   "NEW_ORDER",
	})
	require.NoError(t, err)
	require.Contains(t, cli.streams, "vendor/vendor-9")
}

func TestSendValidatesNotification(t *testing.T) {
	n, err := New(Options{Client: newFakeClient()})
	require.NoError(t, err)

	err = n.Send(context.Background(), orders.Notification{Message: "NEW_ORDER"})
	require.EqualError(t, err, "order id is required")

	err = n.Send(context.Background(), orders.Notification{OrderID: "order-1"})
	require.EqualError(t, err, "message is required")
}

func TestSendPropagatesAddError(t *testing.T) {
	cli := newFakeClient()
	cli.addErr = errors.New("redis down")
	n, err := New(Options{Client: cli})
	require.NoError(t, err)

	err = n.Send(context.Background(), orders.Notification{OrderID: "order-1", Message: "ORDER_READY"})
	require.EqualError(t, err, "redis down")
}

type addedEvent struct {
	event   string
	payload []byte
}

type fakeStream struct {
	added  []addedEvent
	addErr error
}

func (f *fakeStream) Add(_ context.Context, event string, payload []byte) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.added = append(f.added, addedEvent{event: event, payload: payload})
	return "1-0", nil
}

type fakeClient struct {
	streams map[string]*fakeStream
	addErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{streams: make(map[string]*fakeStream)}
}

func (f *fakeClient) Stream(name string, _ ...streamopts.Stream) (clientspulse.Stream, error) {
	s, ok := f.streams[name]
	if !ok {
		s = &fakeStream{addErr: f.addErr}
		f.streams[name] = s
	}
	return s, nil
}

func (f *fakeClient) Close(context.Context) error {
	return nil
}
