package workflow

import (
	"fmt"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/aravindh-murugesan/retrysentry-go/internal/probe"
	"github.com/aravindh-murugesan/retrysentry-go/internal/retry"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// FileConfig is the layout of the YAML/JSON/TOML file passed with --config.
//
//	retry:
//	  policy:
//	    attempts: 4
//	    base-delay-ms: 200
//	    max-delay-ms: 5000
//	    multiplier: 2
//	  jitter: full
//	  operation-timeout: 30s
//	targets:
//	  - name: api
//	    url: https://api.example.com/health
//	    schedule: "*/2 * * * *"
type FileConfig struct {
	Retry   retry.Config   `mapstructure:"retry"`
	Targets []probe.Target `mapstructure:"targets"`
}

// LoadConfig reads a config file. Keys missing from the file keep the values of
// retry.DefaultConfig. Policy numbers that do not parse are clamped later, not rejected.
func LoadConfig(path string) (FileConfig, error) {
	cfg := FileConfig{Retry: retry.DefaultConfig()}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config '%s': %w", path, err)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		backoff.LenientDecodeHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, fmt.Errorf("failed to decode config '%s': %w", path, err)
	}

	for i := range cfg.Targets {
		if err := cfg.Targets[i].Normalize(); err != nil {
			return cfg, fmt.Errorf("target %d: %w", i+1, err)
		}
	}
	return cfg, nil
}
