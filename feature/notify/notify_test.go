package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"parcel-watch/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gomail "gopkg.in/mail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func notification(id, text string) reconcile.Notification {
	return reconcile.Notification{
		LocationName:  "Myrtle Beach",
		AssetTypeName: "Hotels",
		Change:        reconcile.SignificantChange{PropertyID: id, Kind: reconcile.KindSale, Text: text},
	}
}

func emailDispatcher(enabled bool, m *fakeMailer) *EmailDispatcher {
	d := NewEmailDispatcher(Config{
		Channel:   ChannelEmail,
		FromEmail: "watch@example.com",
		ToEmail:   "ops@example.com",
		Enabled:   enabled,
	}, nil)
	d.mailer = m
	return d
}

func TestNewDispatcher(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		want    string
		wantErr bool
	}{
		{"Default", "", ChannelLog, false},
		{"Log", ChannelLog, ChannelLog, false},
		{"Email", ChannelEmail, ChannelEmail, false},
		{"Unknown", "pager", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDispatcher(Config{Channel: tt.channel}, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestLogDispatcher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewLogDispatcher(zap.New(core))

	require.NoError(t, d.Dispatch(context.Background(), notification("P-1", "P-1 sold on 3/4/2024")))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "P-1", fields["property_id"])
	assert.Equal(t, "sale", fields["kind"])
	assert.Equal(t, "Myrtle Beach", fields["location"])
	assert.Equal(t, "P-1 sold on 3/4/2024", fields["text"])
}

func TestEmailDispatcher_Dispatch(t *testing.T) {
	m := &fakeMailer{}
	d := emailDispatcher(true, m)

	err := d.Dispatch(context.Background(), notification("P-1", "P-1 sold on 3/4/2024"))
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, []string{"Parcel Watch: Myrtle Beach Hotels - P-1"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"ops@example.com"}, msg.GetHeader("To"))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "P-1 sold on 3/4/2024")
}

func TestEmailDispatcher_DispatchBatch(t *testing.T) {
	m := &fakeMailer{}
	d := emailDispatcher(true, m)

	var _ reconcile.BatchDispatcher = d

	err := d.DispatchBatch(context.Background(), []reconcile.Notification{
		notification("P-1", "P-1 sold on 3/4/2024"),
		notification("P-2", "P-2 ownership changed to Jane Doe"),
	})
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"Parcel Watch: Myrtle Beach Hotels - 2 changes"}, m.sent[0].GetHeader("Subject"))
}

func TestEmailDispatcher_Disabled(t *testing.T) {
	m := &fakeMailer{}
	d := emailDispatcher(false, m)

	assert.ErrorIs(t, d.Dispatch(context.Background(), notification("P-1", "x")), reconcile.ErrDispatchDisabled)
	assert.ErrorIs(t, d.DispatchBatch(context.Background(), []reconcile.Notification{notification("P-1", "x")}), reconcile.ErrDispatchDisabled)
	require.NoError(t, d.DispatchBatch(context.Background(), nil))
	assert.Empty(t, m.sent)
}

func TestEmailDispatcher_SendFailure(t *testing.T) {
	m := &fakeMailer{err: errors.New("connection refused")}
	d := emailDispatcher(true, m)

	err := d.Dispatch(context.Background(), notification("P-1", "x"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestEmailDispatcher_CancelledContext(t *testing.T) {
	m := &fakeMailer{}
	d := emailDispatcher(true, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, d.Dispatch(ctx, notification("P-1", "x")), context.Canceled)
	assert.Empty(t, m.sent)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()

	msg, err := r.Render(reconcile.Notification{Change: reconcile.SignificantChange{PropertyID: "P-9", Text: "P-9 ownership changed to <Ann>"}})
	require.NoError(t, err)

	assert.Equal(t, "Parcel Watch: Property changes - P-9", msg.Subject)
	assert.Contains(t, msg.Text, "• [Change] P-9 ownership changed to <Ann>")

	_, err = r.RenderDigest(nil)
	assert.Error(t, err)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Sale", kindLabel(reconcile.KindSale))
	assert.Equal(t, "Ownership", kindLabel(reconcile.KindOwnership))
	assert.Equal(t, "Sale And Ownership", kindLabel(reconcile.KindSaleAndOwnership))
	assert.Equal(t, "Change", kindLabel(""))
}

func TestConfig_IsValidChannel(t *testing.T) {
	assert.True(t, Config{Channel: ChannelLog}.IsValidChannel())
	assert.True(t, Config{Channel: ChannelEmail}.IsValidChannel())
	assert.False(t, Config{Channel: "sms"}.IsValidChannel())
}
