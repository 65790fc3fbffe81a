// Package featureflags exposes the remotely controlled switches of the admin
// API. Without a Rollout key every flag keeps its default value.
package featureflags

import (
	"context"
	"fmt"
	"sync"

	"github.com/rollout/rox-go/v5/server"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
)

// Namespace is the Rollout namespace the flags register under.
const Namespace = "vkadmin"

// Container holds every flag. Field names are the flag names in Rollout.
type Container struct {
	// Offline closes the API (everything except health checks) with a 503.
	Offline server.RoxFlag
	// LogLevel is applied to the logger at runtime.
	LogLevel server.RoxString
	// Uploads toggles the product image upload endpoint.
	Uploads server.RoxFlag
}

func newContainer() *Container {
	return &Container{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
		Uploads:  server.NewRoxFlag(true),
	}
}

var (
	mu     sync.RWMutex
	flags  = newContainer()
	rox    *server.Rox
	online bool
)

// Init registers the flags and, when key is set, connects to Rollout. It
// waits for the first fetch until ctx is done; a timeout is reported but the
// flags stay usable with their defaults.
func Init(ctx context.Context, key string) error {
	mu.Lock()
	defer mu.Unlock()

	if rox != nil {
		return nil
	}
	rox = server.NewRox()
	rox.Register(Namespace, flags)

	if key == "" {
		logger.Infof("feature flags: no rollout key, using defaults")
		return nil
	}

	options := server.NewRoxOptions(server.RoxOptionsBuilder{})
	select {
	case <-rox.Setup(key, options):
		online = true
		return nil
	case <-ctx.Done():
		return fmt.Errorf("feature flags setup: %w", ctx.Err())
	}
}

// Values returns the registered flags.
func Values() *Container {
	mu.RLock()
	defer mu.RUnlock()
	return flags
}

// Online reports whether flag values come from Rollout.
func Online() bool {
	mu.RLock()
	defer mu.RUnlock()
	return online
}

// Snapshot is the current value of each flag, as served on /_flags.
type Snapshot struct {
	Offline  bool   `json:"offline"`
	LogLevel string `json:"logLevel"`
	Uploads  bool   `json:"uploads"`
	Online   bool   `json:"online"`
}

func Current() Snapshot {
	v := Values()
	return Snapshot{
		Offline:  v.Offline.IsEnabled(nil),
		LogLevel: v.LogLevel.GetValue(nil),
		Uploads:  v.Uploads.IsEnabled(nil),
		Online:   Online(),
	}
}

// Shutdown disconnects from Rollout. Safe to call without Init.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if rox != nil && online {
		rox.Shutdown()
	}
	online = false
}
