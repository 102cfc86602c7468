package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("UNIDOC_LICENSE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "employee-evaluation", cfg.DBName)
	assert.Equal(t, "secret", cfg.AdminPassword)
	assert.Empty(t, cfg.UnidocLicenseKey)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.Equal(t, 30*time.Second, cfg.SMTP.SendTimeout)
}

func TestLoadUnidocLicenseKey(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("UNIDOC_LICENSE_API_KEY", "metered-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "metered-key", cfg.UnidocLicenseKey)
}

func TestLoadRequiresAdminCredential(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}
