// Package config loads server configuration from the environment and
// assembles a royaltix.Service from it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
	"github.com/royaltix/royaltix-ai/pkg/royaltix/generate"
	"github.com/royaltix/royaltix-ai/pkg/royaltix/pinning"
	"github.com/royaltix/royaltix-ai/pkg/royaltix/registry"
	filestore "github.com/royaltix/royaltix-ai/pkg/royaltix/store/file"
	memorystore "github.com/royaltix/royaltix-ai/pkg/royaltix/store/memory"
)

// ServerConfig represents server configuration for the royaltix service.
//
// Provider credentials are optional at load time: a missing credential
// leaves that provider unwired and the service reports a ConfigError for
// requests that need it, before any external call.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Store configuration
	StoreBackend string `env:"ROYALTIX_STORE" env-default:"file"` // "file", "memory"
	DataDir      string `env:"ROYALTIX_DATA_DIR" env-default:"data"`

	// Generation providers
	HFToken    string `env:"ROYALTIX_HF_TOKEN"`
	HFEndpoint string `env:"ROYALTIX_HF_ENDPOINT"`
	HFModel    string `env:"ROYALTIX_HF_MODEL"`

	GroqAPIKey  string `env:"ROYALTIX_GROQ_API_KEY"`
	GroqBaseURL string `env:"ROYALTIX_GROQ_BASE_URL"`
	GroqModel   string `env:"ROYALTIX_GROQ_MODEL"`

	// Pinning service
	PinataJWT     string `env:"ROYALTIX_PINATA_JWT"`
	PinataBaseURL string `env:"ROYALTIX_PINATA_BASE_URL"`

	// Registration gateway
	StoryGatewayURL     string `env:"ROYALTIX_STORY_GATEWAY_URL"`
	StoryPrivateKey     string `env:"ROYALTIX_STORY_PRIVATE_KEY"`
	StoryNFTContract    string `env:"ROYALTIX_STORY_NFT_CONTRACT"`
	RevenueSharePercent int    `env:"ROYALTIX_REVENUE_SHARE_PERCENT" env-default:"10"`
	IPFSGateway         string `env:"ROYALTIX_IPFS_GATEWAY"`
}

// zeroKey is the placeholder key shipped in env templates; it counts as
// unconfigured.
const zeroKey = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Load reads configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.StoreBackend != "file" && c.StoreBackend != "memory" {
		return fmt.Errorf("store backend must be 'file' or 'memory', got %q", c.StoreBackend)
	}
	if c.StoreBackend == "file" && c.DataDir == "" {
		return errors.New("data dir is required when using the file store")
	}
	if c.RevenueSharePercent < 0 || c.RevenueSharePercent > 100 {
		return fmt.Errorf("revenue share percent must be between 0 and 100, got %d", c.RevenueSharePercent)
	}
	return nil
}

// StoryConfigured reports whether the registration gateway is fully
// configured.
func (c *ServerConfig) StoryConfigured() bool {
	return c.StoryGatewayURL != "" &&
		c.StoryPrivateKey != "" && c.StoryPrivateKey != zeroKey &&
		c.StoryNFTContract != ""
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(logger *slog.Logger) (royaltix.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []royaltix.Option{royaltix.WithLogger(logger)}

	store, err := c.buildStore(logger)
	if err != nil {
		return nil, err
	}
	options = append(options, royaltix.WithStore(store))

	if c.HFToken != "" {
		images, err := generate.NewHuggingFace(generate.HuggingFaceConfig{
			Token:    c.HFToken,
			Endpoint: c.HFEndpoint,
			Model:    c.HFModel,
		})
		if err != nil {
			return nil, fmt.Errorf("build image generator: %w", err)
		}
		options = append(options, royaltix.WithImageGenerator(images))
	}

	if c.GroqAPIKey != "" {
		texts, err := generate.NewGroq(generate.GroqConfig{
			APIKey:  c.GroqAPIKey,
			BaseURL: c.GroqBaseURL,
			Model:   c.GroqModel,
		})
		if err != nil {
			return nil, fmt.Errorf("build text generator: %w", err)
		}
		options = append(options, royaltix.WithTextGenerator(texts))
	}

	if c.StoryConfigured() {
		pinner := pinning.New(pinning.Config{
			JWT:     c.PinataJWT,
			BaseURL: c.PinataBaseURL,
			Logger:  logger,
		})
		registrar, err := registry.New(registry.Config{
			GatewayURL:          c.StoryGatewayURL,
			PrivateKey:          c.StoryPrivateKey,
			NFTContract:         c.StoryNFTContract,
			RevenueSharePercent: c.RevenueSharePercent,
			IPFSGateway:         c.IPFSGateway,
			Pinner:              pinner,
			Logger:              logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build registrar: %w", err)
		}
		options = append(options, royaltix.WithRegistrar(registrar))
	}

	return royaltix.New(options...)
}

func (c *ServerConfig) buildStore(logger *slog.Logger) (royaltix.Store, error) {
	switch c.StoreBackend {
	case "memory":
		return memorystore.New(), nil
	default:
		store, err := filestore.New(filestore.Config{
			Path:   filepath.Join(c.DataDir, "content.json"),
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build file store: %w", err)
		}
		return store, nil
	}
}
