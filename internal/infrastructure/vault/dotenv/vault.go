// Package dotenv provides a dotenv-based vault implementation.
package dotenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/unifiedui/price-chat/internal/core/vault"
)

// URIScheme prefixes secret references handled by this vault.
const URIScheme = "dotenv://"

// Vault implements vault.Vault using a secrets file and environment variables.
// Values from the file take precedence over the environment.
type Vault struct {
	secrets map[string]string
	mu      sync.RWMutex
}

// NewVault creates a vault backed by the given secrets file.
// An empty path or a missing file leaves only the environment as source.
func NewVault(path string) (*Vault, error) {
	v := &Vault{secrets: make(map[string]string)}
	if path == "" {
		return v, nil
	}

	secrets, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}
	v.secrets = secrets
	return v, nil
}

// GetSecret retrieves a secret from the secrets file or the environment.
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, URIScheme)
	if key == "" {
		return "", fmt.Errorf("%w: empty key", vault.ErrSecretNotFound)
	}

	v.mu.RLock()
	value, ok := v.secrets[key]
	v.mu.RUnlock()
	if ok && value != "" {
		return value, nil
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("%w: %s", vault.ErrSecretNotFound, key)
}

// Ping always succeeds for the dotenv vault.
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close clears the in-memory secrets.
func (v *Vault) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.secrets = make(map[string]string)
	return nil
}
