package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// VaultConfig configures the Key Vault client.
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// VaultClient reads secrets from Azure Key Vault with an optional
// in-process TTL cache. Authentication uses DefaultAzureCredential, which
// covers service principal env vars, managed identity and the Azure CLI.
type VaultClient struct {
	client   *azsecrets.Client
	logger   *zap.Logger
	cache    map[string]cacheEntry
	cacheTTL time.Duration
	caching  bool
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// NewVaultClient connects to https://{name}.vault.azure.net.
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Key Vault client: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	logger.Info("Key Vault client ready",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache", cfg.CacheEnabled))

	return &VaultClient{
		client:   client,
		logger:   logger,
		cache:    make(map[string]cacheEntry),
		cacheTTL: ttl,
		caching:  cfg.CacheEnabled,
	}, nil
}

// GetSecret fetches the latest version of a secret.
func (v *VaultClient) GetSecret(ctx context.Context, name string) (string, error) {
	if v.caching {
		if entry, ok := v.cache[name]; ok && time.Now().Before(entry.expires) {
			return entry.value, nil
		}
		delete(v.cache, name)
	}

	resp, err := v.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", name)
	}

	value := *resp.Value
	if v.caching {
		v.cache[name] = cacheEntry{value: value, expires: time.Now().Add(v.cacheTTL)}
	}
	return value, nil
}
