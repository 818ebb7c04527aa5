package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("ACCESS_SECRET", "access-secret-32-bytes-xxxxxxxxxxx")
	t.Setenv("REFRESH_SECRET", "refresh-secret-32-bytes-xxxxxxxxxx")
}

func TestLoadConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "4100")
	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "")
	t.Setenv("BCRYPT_SALT_ROUNDS", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("NODE_ENV", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "4100", cfg.Server.Port)
	require.Equal(t, "http://localhost:4100", cfg.Server.BaseURL)
	require.False(t, cfg.Server.IsProduction())
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	require.Equal(t, 10, cfg.Password.BcryptCost)
	require.Equal(t, "sqlite://:memory:", cfg.Database.URL)
	require.False(t, cfg.JWT.RotateRefreshToken)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "ACCESS_SECRET", "REFRESH_SECRET"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			cfg, err := LoadConfig()
			require.Error(t, err)
			require.Nil(t, cfg)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("BASE_URL", "https://auth.example.com")
	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "5m")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "2d")
	t.Setenv("BCRYPT_SALT_ROUNDS", "12")
	t.Setenv("ROTATE_REFRESH_TOKEN", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.Server.IsProduction())
	require.Equal(t, "https://auth.example.com", cfg.Server.BaseURL)
	require.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 48*time.Hour, cfg.JWT.RefreshTokenTTL)
	require.Equal(t, 12, cfg.Password.BcryptCost)
	require.True(t, cfg.JWT.RotateRefreshToken)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "soon")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "15m")
	t.Setenv("BCRYPT_SALT_ROUNDS", "40")
	_, err = LoadConfig()
	require.Error(t, err)

	// a typo must not fall back to the default cost
	t.Setenv("BCRYPT_SALT_ROUNDS", "twelve")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "BCRYPT_SALT_ROUNDS")

	t.Setenv("BCRYPT_SALT_ROUNDS", "12")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "1e300d")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "REFRESH_TOKEN_EXPIRES_IN")
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth")
	t.Setenv("ACCESS_SECRET", "")
	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost:5432/auth", cfg.URL)
	require.Equal(t, 10*time.Second, cfg.Timeout)

	t.Setenv("DATABASE_URL", "")
	_, err = LoadDatabaseConfig()
	require.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"15m":   15 * time.Minute,
		"7d":    7 * 24 * time.Hour,
		"0.5d":  12 * time.Hour,
		"900":   900 * time.Second,
		"1h30m": 90 * time.Minute,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	invalid := []string{
		"", "abc", "xd", "0", "-5m",
		"1e300d", "NaNd", "Infd", "-Infd", "-1d",
		"106752d", "9223372036854775807", "-9223372036854775807",
	}
	for _, bad := range invalid {
		_, err := ParseDuration(bad)
		require.Error(t, err, bad)
	}
}
