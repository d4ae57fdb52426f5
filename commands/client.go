package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"github.com/zetsubou-life/zetsubou-go/client"
	"github.com/zetsubou-life/zetsubou-go/logging"
)

// fileConfig is the optional on-disk configuration, read from
// ~/.config/zetsubou/config.toml or the --config path. Flags and
// environment variables always win over it.
type fileConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return &fileConfig{}, nil
		}
		path = filepath.Join(dir, "zetsubou", "config.toml")
		if _, err := os.Stat(path); err != nil {
			return &fileConfig{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// MakeClient builds an SDK client from flags, environment, and the config
// file, in that order of precedence.
func MakeClient(ctx *cli.Context) (*client.Client, error) {
	cfg, err := loadFileConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	apiKey := ctx.String("api-key")
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: set --api-key, ZETSUBOU_API_KEY, or api_key in the config file")
	}

	baseURL := ctx.String("base-url")
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	logger, err := logging.InitializeLogger(ctx.Bool("verbose"))
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithLogger(logger)}
	if baseURL != "" {
		opts = append(opts, client.WithBaseURL(baseURL))
	}
	return client.New(apiKey, opts...), nil
}
