package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "Defaults without file",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "jito-speedtest", cfg.App.Name)
				assert.Equal(t, "warn", cfg.Logger.Level)
				assert.Equal(t, "console", cfg.Logger.Encoding)
				assert.Empty(t, cfg.Logger.File)
				assert.Equal(t, "cfanbo", cfg.Update.RepoOwner)
				assert.Equal(t, "jito-speedtest", cfg.Update.RepoName)
				assert.Equal(t, "https://api.github.com", cfg.Update.APIURL)
				assert.Equal(t, 60*time.Second, cfg.Update.GetTimeout())
				assert.Equal(t, 10*time.Minute, cfg.Update.GetCacheTTL())
			},
		},
		{
			name: "File values",
			configYAML: `
logger:
  level: debug
  encoding: json
update:
  repo_owner: someone
  timeout: 5s
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logger.Level)
				assert.Equal(t, "json", cfg.Logger.Encoding)
				assert.Equal(t, "someone", cfg.Update.RepoOwner)
				assert.Equal(t, 5*time.Second, cfg.Update.GetTimeout())
			},
		},
		{
			name:       "Env overrides file",
			configYAML: "logger:\n  level: debug\n",
			envVars:    map[string]string{"JITO_SPEEDTEST_LOGGER_LEVEL": "error"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logger.Level)
			},
		},
		{
			name:        "Invalid level",
			configYAML:  "logger:\n  level: loud\n",
			expectError: true,
		},
		{
			name:    "Invalid api url is left to the update path",
			envVars: map[string]string{"JITO_SPEEDTEST_UPDATE_API_URL": "not a url"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "not a url", cfg.Update.APIURL)
				assert.Error(t, cfg.Update.Validate())
			},
		},
		{
			name:        "Malformed file",
			configYAML:  "logger: [",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.configYAML != "" {
				err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(tt.configYAML), 0644)
				require.NoError(t, err)
			}

			// Keep the developer's own config out of the test.
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			t.Setenv("HOME", t.TempDir())
			t.Chdir(t.TempDir())
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(tmpDir)
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestUpdateConfig_Validate(t *testing.T) {
	valid := UpdateConfig{
		RepoOwner: "cfanbo",
		RepoName:  "jito-speedtest",
		BinName:   "jito-speedtest",
		APIURL:    "https://api.github.com",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*UpdateConfig)
	}{
		{name: "bad url", mutate: func(c *UpdateConfig) { c.APIURL = "not a url" }},
		{name: "missing owner", mutate: func(c *UpdateConfig) { c.RepoOwner = "" }},
		{name: "missing binary name", mutate: func(c *UpdateConfig) { c.BinName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
