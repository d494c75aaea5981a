package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PHONEPE_MERCHANT_ID", "M-TEST")
	t.Setenv("PHONEPE_SALT_KEY", "salt")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "1", cfg.SaltIndex)
	assert.Equal(t, "https://api-preprod.phonepe.com/apis/pg-sandbox", cfg.GatewayBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.ReconcileInterval)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("PHONEPE_SALT_INDEX", "3")
	t.Setenv("PAYMENT_RECONCILE_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, "3", cfg.SaltIndex)
	assert.Equal(t, 90*time.Second, cfg.ReconcileInterval)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PHONEPE_MERCHANT_ID", "M-TEST")
	t.Setenv("PHONEPE_SALT_KEY", "salt")

	_, err := Load()
	require.Error(t, err)

	setRequiredEnv(t)
	t.Setenv("PHONEPE_MERCHANT_ID", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_RECONCILE_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
}
