package config

import (
	"fmt"

	"github.com/Badsnus/tabqr/internal/adapters/database/postgres"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/Badsnus/tabqr/pkg/smtp"
	"github.com/spf13/viper"
)

// SettingsStorage returns the backend chosen by settings.storage.
func (c *Config) SettingsStorage() (service.SettingsStorage, error) {
	switch kind := viper.GetString("settings.storage"); kind {
	case StorageRedis, "":
		if c.Redis == nil {
			return nil, fmt.Errorf("settings storage %q needs redis", StorageRedis)
		}
		return c.Redis.Settings, nil
	case StorageDatabase:
		if c.Database == nil {
			return nil, fmt.Errorf("settings storage %q needs a database", StorageDatabase)
		}
		return postgres.NewSettingsStorage(c.Database), nil
	default:
		return nil, fmt.Errorf("unknown settings storage %q", kind)
	}
}

// Mailer returns the export mailer, nil when SMTP is disabled.
func (c *Config) Mailer() *smtp.Client {
	if c.SMTPDialer == nil {
		return nil
	}
	return smtp.NewClient(c.SMTPDialer, smtp.Options{
		From:   viper.GetString("service.smtp.email"),
		Domain: viper.GetString("service.smtp.domain"),
	})
}
