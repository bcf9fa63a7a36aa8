package acl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/clients"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
)

// DefaultResendName is the provider name used in errors and health checks.
const DefaultResendName = "resend"

const operationSendEmail = "send email"

// ResendClientConfig contains configuration for the Resend gateway.
type ResendClientConfig struct {
	// Client must be created with BaseURL pointing at the Resend API and
	// AuthFunc set to BearerAuth(APIKey).
	Client *clients.Client

	// APIKey is only inspected here; a blank key fails every send with a
	// configuration error instead of a provider 401.
	APIKey string

	// From is the sender, "Name <addr@domain>" or a bare address.
	// Defaults to config.DefaultEmailFrom.
	From string

	// Name overrides DefaultResendName.
	Name string

	Logger *slog.Logger
}

// ResendClient implements ports.NotificationGateway on the Resend REST API.
// It also implements ports.HealthChecker.
type ResendClient struct {
	BaseAdapter

	apiKey string
	from   string
	logger *slog.Logger
}

// NewResendClient creates the gateway. It panics when Client is nil.
func NewResendClient(cfg ResendClientConfig) *ResendClient {
	if cfg.Client == nil {
		panic("ResendClient: Client is required")
	}

	name := cfg.Name
	if name == "" {
		name = DefaultResendName
	}

	from := config.NormalizeSender(cfg.From)
	if from == "" {
		from = config.DefaultEmailFrom
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ResendClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		from:        from,
		logger:      logger.With(slog.String("component", "acl.ResendClient")),
	}
}

// sendEmailRequest is the provider's POST /emails body.
type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// sendEmailResponse is the provider's success body.
type sendEmailResponse struct {
	ID string `json:"id"`
}

// Send delivers one message and returns the provider message id.
// Implements ports.NotificationGateway.
func (c *ResendClient) Send(ctx context.Context, msg domain.EmailMessage) (string, error) {
	if err := c.validateConfig(); err != nil {
		return "", err
	}

	logger := logging.FromContextOr(ctx, c.logger)
	logger.Log(ctx, logging.LevelTrace, "sending email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	body, err := c.PostJSON(ctx, "/emails", sendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	}, operationSendEmail)
	if err != nil {
		logger.WarnContext(ctx, "email provider rejected send",
			slog.String("to", msg.To),
			slog.Any("error", err),
		)

		return "", err
	}

	out, err := DecodeResponse[sendEmailResponse](body)
	if err != nil {
		return "", domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	if out.ID == "" {
		return "", domain.NewUnavailableError(c.ServiceName(), "response carried no message id")
	}

	logger.DebugContext(ctx, "email accepted",
		slog.String("to", msg.To),
		slog.String("message_id", out.ID),
	)

	return out.ID, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *ResendClient) Name() string {
	return c.ServiceName()
}

// Check reports configuration problems and an open circuit breaker. It
// never calls the provider, so readiness probes do not spend API quota.
// Implements ports.HealthChecker.
func (c *ResendClient) Check(context.Context) error {
	if err := c.validateConfig(); err != nil {
		return err
	}

	if snap := c.Client().Circuit(); snap.State == clients.StateOpen {
		return fmt.Errorf("circuit breaker open since %s", snap.LastFailure.Format("15:04:05"))
	}

	return nil
}

func (c *ResendClient) validateConfig() error {
	if c.apiKey == "" {
		return domain.NewConfigurationError("email.api_key", "RESEND_API_KEY is not set")
	}

	return ValidateSender(c.from)
}

// ValidateSender rejects sender values that cannot contain a mailbox.
func ValidateSender(from string) error {
	if !strings.Contains(from, "@") {
		return domain.NewConfigurationError("email.from",
			fmt.Sprintf("EMAIL_FROM %q must contain an email address", from))
	}

	return nil
}
