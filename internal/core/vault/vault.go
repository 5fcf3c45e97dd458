// Package vault defines the secret source used to resolve credentials at startup.
package vault

import (
	"context"
	"errors"
	"strings"
)

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv reads secrets from a dotenv file and the process environment.
	TypeDotEnv Type = "dotenv"
)

// ErrSecretNotFound is returned when a secret is not present in the vault.
var ErrSecretNotFound = errors.New("secret not found")

// Vault resolves secrets by URI ("dotenv://NAME" or a bare NAME).
type Vault interface {
	// GetSecret returns the secret value or ErrSecretNotFound.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the vault.
	Close() error
}

// Resolve returns current when it is set, otherwise the secret stored under key.
// A missing secret yields an empty string; other vault errors are returned.
func Resolve(ctx context.Context, v Vault, current, key string) (string, error) {
	if strings.TrimSpace(current) != "" || v == nil {
		return current, nil
	}

	value, err := v.GetSecret(ctx, key)
	if errors.Is(err, ErrSecretNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
