package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SLEEPQUEST_DATABASE_URL", "postgres://localhost:5432/sleepquest")
	t.Setenv("SLEEPQUEST_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SLEEPQUEST_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "Asia/Jerusalem", cfg.Timezone)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 10*time.Minute, cfg.GameStateTTL)
	require.Equal(t, 10, cfg.LoginRateMax)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.NotNil(t, loc)
}

func TestLoadRejectsMissingCoreSettings(t *testing.T) {
	complete := map[string]string{
		"SLEEPQUEST_DATABASE_URL": "postgres://localhost:5432/sleepquest",
		"SLEEPQUEST_REDIS_URL":    "redis://localhost:6379/0",
		"SLEEPQUEST_JWT_SECRET":   "test-secret",
	}

	// Dropping any one of the settings without a default must fail Load
	// instead of surfacing later as a connect error.
	for missing := range complete {
		t.Run(missing, func(t *testing.T) {
			for key, value := range complete {
				if key == missing {
					t.Setenv(key, "")
					continue
				}
				t.Setenv(key, value)
			}

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), "must be provided")
		})
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("SLEEPQUEST_DATABASE_URL", "postgres://localhost:5432/sleepquest")
	t.Setenv("SLEEPQUEST_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SLEEPQUEST_JWT_SECRET", "test-secret")
	t.Setenv("SLEEPQUEST_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
}
