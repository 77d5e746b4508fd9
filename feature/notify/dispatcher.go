package notify

import (
	"context"
	"fmt"
	"time"

	"parcel-watch/core/reconcile"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

// NewDispatcher builds the dispatcher selected by cfg.Channel.
func NewDispatcher(cfg Config, logger *zap.Logger) (reconcile.Dispatcher, error) {
	switch cfg.Channel {
	case ChannelLog, "":
		return NewLogDispatcher(logger), nil
	case ChannelEmail:
		return NewEmailDispatcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown notification channel: %s", cfg.Channel)
	}
}

// LogDispatcher writes notifications to the structured log.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogDispatcher{logger: logger}
}

// Name returns "log".
func (d *LogDispatcher) Name() string { return ChannelLog }

// Dispatch logs a single notification.
func (d *LogDispatcher) Dispatch(ctx context.Context, n reconcile.Notification) error {
	d.logger.Info("Property change",
		zap.String("property_id", n.Change.PropertyID),
		zap.String("kind", string(n.Change.Kind)),
		zap.String("location", n.LocationName),
		zap.String("asset_type", n.AssetTypeName),
		zap.String("text", n.Change.Text),
	)
	return nil
}

// mailer is the subset of *gomail.Dialer used for delivery.
type mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailDispatcher delivers notifications via SMTP. A whole plan is sent as a
// single digest message.
type EmailDispatcher struct {
	cfg      Config
	renderer *Renderer
	mailer   mailer
	logger   *zap.Logger
}

// NewEmailDispatcher creates an SMTP dispatcher from the configuration.
func NewEmailDispatcher(cfg Config, logger *zap.Logger) *EmailDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	dialer.Timeout = time.Duration(timeout) * time.Second

	return &EmailDispatcher{
		cfg:      cfg,
		renderer: NewRenderer(),
		mailer:   dialer,
		logger:   logger,
	}
}

// Name returns "email".
func (d *EmailDispatcher) Name() string { return ChannelEmail }

// Dispatch sends one email for a single notification.
func (d *EmailDispatcher) Dispatch(ctx context.Context, n reconcile.Notification) error {
	return d.DispatchBatch(ctx, []reconcile.Notification{n})
}

// DispatchBatch sends one digest email covering every notification. It
// returns reconcile.ErrDispatchDisabled when email delivery is switched off.
func (d *EmailDispatcher) DispatchBatch(ctx context.Context, ns []reconcile.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if !d.cfg.Enabled {
		return fmt.Errorf("%w: %s", reconcile.ErrDispatchDisabled, ChannelEmail)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := d.renderer.RenderDigest(ns)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.FromEmail)
	m.SetHeader("To", d.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	if err := d.mailer.DialAndSend(m); err != nil {
		d.logger.Error("Failed to send notification email",
			zap.String("to", d.cfg.ToEmail),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return err
	}

	d.logger.Info("Notification email sent", zap.String("subject", msg.Subject), zap.Int("changes", len(ns)))
	return nil
}
