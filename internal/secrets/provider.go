package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource selects where secrets are read from.
type SecretSource string

const (
	// SourceEnvironment reads secrets from environment variables.
	SourceEnvironment SecretSource = "environment"
	// SourceVault reads secrets from Azure Key Vault.
	SourceVault SecretSource = "vault"
	// SourceAuto picks vault in staging/production, environment otherwise.
	SourceAuto SecretSource = "auto"
)

// ProviderConfig configures the secrets provider.
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Provider resolves secrets from the configured source. With the vault
// source, lookups go to Azure Key Vault; with the environment source,
// secret names are treated as environment variable names.
type Provider struct {
	source SecretSource
	vault  *VaultClient
	logger *zap.Logger
}

// NewProvider builds a provider, resolving the "auto" source against the
// deployment environment.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		if cfg.Environment == "development" || cfg.Environment == "local" || cfg.Environment == "" {
			source = SourceEnvironment
		} else {
			source = SourceVault
		}
	}

	p := &Provider{source: source, logger: logger}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required for vault secret source")
		}
		vault, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize vault client: %w", err)
		}
		p.vault = vault
	}

	logger.Info("secrets provider ready",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment))
	return p, nil
}

// GetSecret fetches one secret by name from the active source.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable %q not set", name)
		}
		return value, nil
	case SourceVault:
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source %q", p.source)
	}
}

// GetSecretOrEnv prefers an explicitly set environment variable over the
// configured source, so individual secrets stay overridable in vault mode.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if v := os.Getenv(envName); v != "" {
		p.logger.Debug("environment override for secret", zap.String("env", envName))
		return v, nil
	}
	return p.GetSecret(ctx, name)
}
