package session

import (
	"time"

	"github.com/macrolab/macrosim/internal/notify"
	"github.com/macrolab/macrosim/internal/session/core"
)

type Config struct {
	Core core.Config

	// TickInterval is the wall-clock spacing of countdown ticks.
	TickInterval time.Duration

	// NotificationTTL is how long pushed notifications stay visible.
	NotificationTTL time.Duration

	// RequestTimeout bounds each collaborator call (event context, scenarios).
	RequestTimeout time.Duration

	// Seed fixes the drift randomness. Zero means time-seeded.
	Seed int64

	CommandBuffer int // inbound command queue
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = notify.DefaultTTL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.CommandBuffer <= 0 {
		c.CommandBuffer = 64
	}
	return c
}
