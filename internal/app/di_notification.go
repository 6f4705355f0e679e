package app

import (
	"fmt"

	notificationService "github.com/allisson/farmaggregator/internal/notification/service"
	notificationUseCase "github.com/allisson/farmaggregator/internal/notification/usecase"
	userRepository "github.com/allisson/farmaggregator/internal/user/repository"
)

// UserRepository returns the user repository used to find alert recipients.
func (c *Container) UserRepository() (notificationUseCase.UserRepository, error) {
	c.userRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.recordError("userRepository", fmt.Errorf("failed to get database for user repository: %w", err))
			return
		}

		switch c.config.DBDriver {
		case "postgres":
			c.userRepository = userRepository.NewPostgreSQLUserRepository(db)
		case "mysql":
			c.userRepository = userRepository.NewMySQLUserRepository(db)
		default:
			c.recordError("userRepository", fmt.Errorf("unsupported database driver: %s", c.config.DBDriver))
		}
	})
	if err := c.storedError("userRepository"); err != nil {
		return nil, err
	}
	return c.userRepository, nil
}

// Mailer returns the SMTP mailer.
func (c *Container) Mailer() notificationService.Mailer {
	c.mailerInit.Do(func() {
		c.mailer = notificationService.NewSMTPMailer(notificationService.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUser,
			Password: c.config.SMTPPassword,
			From:     c.config.EmailsFromEmail,
		})
	})
	return c.mailer
}

// AlertSink returns the admin alert sink.
func (c *Container) AlertSink() (notificationUseCase.AlertSink, error) {
	c.alertSinkInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.recordError("alertSink", fmt.Errorf("failed to get user repository for alert sink: %w", err))
			return
		}
		c.alertSink = notificationUseCase.NewAlertSink(
			c.config.EmailsEnabled,
			userRepo,
			c.Mailer(),
			c.Logger(),
		)
	})
	if err := c.storedError("alertSink"); err != nil {
		return nil, err
	}
	return c.alertSink, nil
}
