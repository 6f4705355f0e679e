// Package usecase escalates unrecoverable farm errors to the aggregator's administrators.
package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
	notificationDomain "github.com/allisson/farmaggregator/internal/notification/domain"
	notificationService "github.com/allisson/farmaggregator/internal/notification/service"
	userDomain "github.com/allisson/farmaggregator/internal/user/domain"
)

// maxConcurrentSends bounds the number of SMTP sessions opened by one alert.
const maxConcurrentSends = 4

// UserRepository lists the users that may receive alerts.
type UserRepository interface {
	GetMulti(ctx context.Context) ([]*userDomain.User, error)
}

// AlertSink sends admin alerts.
type AlertSink interface {
	// NotifyAdmins emails message to every superuser. It is a no-op when emails are
	// disabled. A failed delivery never prevents delivery to the other recipients;
	// all failures are joined into the returned error.
	NotifyAdmins(ctx context.Context, message string) error
}

type alertSink struct {
	enabled  bool
	userRepo UserRepository
	mailer   notificationService.Mailer
	logger   *slog.Logger
}

// NewAlertSink creates a new AlertSink.
func NewAlertSink(
	enabled bool,
	userRepo UserRepository,
	mailer notificationService.Mailer,
	logger *slog.Logger,
) AlertSink {
	return &alertSink{
		enabled:  enabled,
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

func (a *alertSink) NotifyAdmins(ctx context.Context, message string) error {
	if !a.enabled {
		return nil
	}

	a.logger.Info("sending admin alert message", slog.String("message", message))

	users, err := a.userRepo.GetMulti(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to list alert recipients")
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrentSends)

	for _, user := range users {
		if !user.IsAlertRecipient() {
			continue
		}
		g.Go(func() error {
			msg := notificationDomain.NewAdminAlert(user.Email, message)
			if err := a.mailer.Send(ctx, msg); err != nil {
				a.logger.Error(
					"failed to send admin alert",
					slog.Int64("user_id", user.ID),
					slog.Any("error", err),
				)
				mu.Lock()
				errs = append(errs, apperrors.Wrapf(err, "alert to user %d", user.ID))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return apperrors.Join(errs...)
}
