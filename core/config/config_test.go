package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "realestateapi", cfg.Server.Provider)
	assert.Equal(t, "ADDRESS", cfg.Server.ShapeAddressField)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "places/", cfg.Storage.PlacesPrefix)
	assert.Equal(t, 0.001, cfg.Reconcile.ProximityThreshold)
	assert.Equal(t, "first", cfg.Reconcile.ProximityStrategy)
	assert.Equal(t, 4, cfg.Reconcile.Workers)
	assert.Equal(t, "log", cfg.Notify.Channel)
	assert.False(t, cfg.Notify.Enabled)
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "RECONCILE_PROXIMITY_STRATEGY=nearest\nNOTIFY_LOCATION_NAME=Myrtle Beach\nSERVER_PROVIDER=propertycard\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("RECONCILE_PROXIMITY_THRESHOLD", "0.0005")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "nearest", cfg.Reconcile.ProximityStrategy)
	assert.Equal(t, 0.0005, cfg.Reconcile.ProximityThreshold)
	assert.Equal(t, "Myrtle Beach", cfg.Notify.LocationName)
	assert.Equal(t, "propertycard", cfg.Server.Provider)

	// godotenv.Overload writes into the process environment.
	for _, key := range []string{"RECONCILE_PROXIMITY_STRATEGY", "NOTIFY_LOCATION_NAME", "SERVER_PROVIDER"} {
		os.Unsetenv(key)
	}
}

func TestLoadConfig_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"SERVER_PROVIDER", "server.provider"},
		{"RECONCILE_PROXIMITY_STRATEGY", "reconcile.proximity_strategy"},
		{"NOTIFY_CHANNEL", "notify.channel"},
		{"DATABASE_DRIVER", "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, "bogus")

			_, err := LoadConfig(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
