package dotenv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/price-chat/internal/core/vault"
	"github.com/unifiedui/price-chat/internal/infrastructure/vault/dotenv"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".secrets.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVault_FileTakesPrecedence(t *testing.T) {
	t.Setenv("PRICECHAT_TEST_KEY", "from-env")
	v, err := dotenv.NewVault(writeSecrets(t, "PRICECHAT_TEST_KEY=from-file\n"))
	require.NoError(t, err)

	value, err := v.GetSecret(context.Background(), "dotenv://PRICECHAT_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestVault_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("PRICECHAT_TEST_ENV_ONLY", "env-value")
	v, err := dotenv.NewVault("")
	require.NoError(t, err)

	value, err := v.GetSecret(context.Background(), "PRICECHAT_TEST_ENV_ONLY")
	require.NoError(t, err)
	assert.Equal(t, "env-value", value)
}

func TestVault_MissingFileIsIgnored(t *testing.T) {
	v, err := dotenv.NewVault(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.NoError(t, v.Ping(context.Background()))
}

func TestVault_NotFound(t *testing.T) {
	v, err := dotenv.NewVault("")
	require.NoError(t, err)

	_, err = v.GetSecret(context.Background(), "dotenv://PRICECHAT_TEST_NEVER_SET")
	assert.ErrorIs(t, err, vault.ErrSecretNotFound)
}

func TestVault_CloseDropsFileSecrets(t *testing.T) {
	v, err := dotenv.NewVault(writeSecrets(t, "PRICECHAT_TEST_CLOSED=x\n"))
	require.NoError(t, err)
	require.NoError(t, v.Close())

	_, err = v.GetSecret(context.Background(), "PRICECHAT_TEST_CLOSED")
	assert.ErrorIs(t, err, vault.ErrSecretNotFound)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	v, err := dotenv.NewVault(writeSecrets(t, "MISTRAL_API_KEY=vault-key\n"))
	require.NoError(t, err)

	value, err := vault.Resolve(ctx, v, "configured", "MISTRAL_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "configured", value)

	value, err = vault.Resolve(ctx, v, "", "MISTRAL_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "vault-key", value)

	value, err = vault.Resolve(ctx, v, "", "PRICECHAT_TEST_NEVER_SET")
	require.NoError(t, err)
	assert.Empty(t, value)

	value, err = vault.Resolve(ctx, nil, "", "MISTRAL_API_KEY")
	require.NoError(t, err)
	assert.Empty(t, value)
}
