package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// NgrokSettings controls the optional public tunnel
type NgrokSettings struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	AuthToken string `json:"authToken" mapstructure:"authToken"`
	Domain    string `json:"domain" mapstructure:"domain"`
}

// Settings holds everything the server needs to start
type Settings struct {
	Host            string        `json:"host" mapstructure:"host"`
	Port            int           `json:"port" mapstructure:"port"`
	ScenarioDir     string        `json:"scenarioDir" mapstructure:"scenarioDir"`
	DefaultScenario string        `json:"defaultScenario" mapstructure:"defaultScenario"`
	Debug           bool          `json:"debug" mapstructure:"debug"`
	SessionMaxAge   time.Duration `json:"sessionMaxAge" mapstructure:"sessionMaxAge"`
	CleanupInterval time.Duration `json:"cleanupInterval" mapstructure:"cleanupInterval"`
	Ngrok           NgrokSettings `json:"ngrok" mapstructure:"ngrok"`
}

// Addr returns host:port
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// loadSettings layers defaults, the optional autodrive.json (or configFile
// when given) and AUTODRIVE_* environment variables.
func loadSettings(configFile string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("scenarioDir", "scenarios")
	v.SetDefault("defaultScenario", "")
	v.SetDefault("debug", false)
	v.SetDefault("sessionMaxAge", 24*time.Hour)
	v.SetDefault("cleanupInterval", time.Hour)
	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authToken", "")
	v.SetDefault("ngrok.domain", "")

	v.SetEnvPrefix("AUTODRIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for existing deployments
	bindings := map[string][]string{
		"scenarioDir":     {"AUTODRIVE_SCENARIO_DIR", "SCENARIO_DIR"},
		"defaultScenario": {"AUTODRIVE_DEFAULT_SCENARIO"},
		"sessionMaxAge":   {"AUTODRIVE_SESSION_MAX_AGE"},
		"cleanupInterval": {"AUTODRIVE_CLEANUP_INTERVAL"},
		"ngrok.enabled":   {"AUTODRIVE_NGROK_ENABLED", "NGROK_ENABLED"},
		"ngrok.authToken": {"AUTODRIVE_NGROK_AUTH_TOKEN", "NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"},
		"ngrok.domain":    {"AUTODRIVE_NGROK_DOMAIN", "NGROK_DOMAIN"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("autodrive")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}

	if s.Port <= 0 || s.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", s.Port)
	}
	if s.ScenarioDir == "" {
		return nil, errors.New("scenario directory must not be empty")
	}

	return &s, nil
}
