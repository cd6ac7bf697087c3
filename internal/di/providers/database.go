package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/logger"
	"github.com/foundershelf/foundershelf-server/internal/reclog"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog and signal store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.StorePath()
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// RecLogHandle wraps the recommendation run log with shutdown capability.
type RecLogHandle struct {
	*reclog.Store
}

// Shutdown implements do.Shutdownable.
func (h *RecLogHandle) Shutdown() error {
	if h.Store == nil {
		return nil
	}
	return h.Close()
}

// ProvideRecLog provides the SQLite recommendation run log. The log is an
// observability aid; a failure to open it degrades to a warning, not a
// startup failure.
func ProvideRecLog(i do.Injector) (*RecLogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	rl, err := reclog.Open(cfg.RecLogPath(), log.Logger)
	if err != nil {
		log.Warn("Recommendation log unavailable", "path", cfg.RecLogPath(), "error", err)
		return &RecLogHandle{Store: nil}, nil
	}

	log.Info("Recommendation log initialized", "path", cfg.RecLogPath())
	return &RecLogHandle{Store: rl}, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
