package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// SubscriptionManager is the inbound port used by the HTTP adapter.
type SubscriptionManager interface {
	Subscribe(ctx context.Context, email, timezone string) (domain.Outcome, error)
	Unsubscribe(ctx context.Context, email string) (domain.Outcome, error)
	UnsubscribeByToken(ctx context.Context, token string) (domain.Outcome, error)
}

// Dispatcher runs the daily fan-out. Implemented by app.DispatchService and
// driven by the scheduler and the one-shot command.
type Dispatcher interface {
	RunDailyDispatch(ctx context.Context, date time.Time) (*domain.DispatchReport, error)
}
