package migrate_test

import (
	"context"
	"testing"

	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/migrate"
)

// MaybeRunDev must bail out before touching the database when the env is not
// dev or the auto-migrate flag is off; a nil client panics otherwise.
func TestMaybeRunDevSkips(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	cases := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "prod env",
			cfg: config.Config{
				App:      config.AppConfig{Env: "production"},
				Features: config.FeatureFlagsConfig{AutoMigrate: true},
			},
		},
		{
			name: "flag disabled",
			cfg: config.Config{
				App:      config.AppConfig{Env: "dev"},
				Features: config.FeatureFlagsConfig{AutoMigrate: false},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := migrate.MaybeRunDev(context.Background(), &tc.cfg, logg, nil); err != nil {
				t.Fatalf("expected skip without error, got %v", err)
			}
		})
	}
}
