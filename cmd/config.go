package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the composition root needs to assemble the
// service. Values come from the environment; see cmd/app/main.go.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	PresenceTTL   time.Duration

	PlatformBaseURL string
	PlatformToken   string

	// AdminActorID is the operator actor escalation pushes go to when an
	// order exhausts both search tiers.
	AdminActorID string

	Tier1Duration    time.Duration
	Tier2Duration    time.Duration
	AdminNotifyDelay time.Duration
	RestartDelay     time.Duration

	NotificationConcurrency int
	WebhookConcurrency      int
	PaymentConcurrency      int
}

// PostgresDSN renders the gorm connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
