package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/infrastructure/cache/redis"
	"github.com/unifiedui/price-chat/internal/pkg/encryption"
	"github.com/unifiedui/price-chat/internal/services/session"
)

func setupService(t *testing.T, enc encryption.Encryptor) (session.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewCacheWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), 0)
	t.Cleanup(func() { _ = c.Close() })

	svc, err := session.NewService(&session.Config{
		Cache:     c,
		Encryptor: enc,
		TTL:       10 * time.Minute,
	})
	require.NoError(t, err)
	return svc, mr
}

func newAESEncryptor(t *testing.T) encryption.Encryptor {
	t.Helper()
	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	enc, err := encryption.NewAESEncryptor(key)
	require.NoError(t, err)
	return enc
}

func sampleTranscript() []models.Entry {
	return []models.Entry{
		{Message: models.SystemMessage{Content: "persona"}},
		{Message: models.AssistantMessage{Content: "Hola"}},
		{Message: models.UserMessage{Content: "arroz"}},
		{Message: models.AssistantMessage{ToolCalls: []models.ToolCall{{ID: "call_1", Name: "search_prices", Arguments: `{"term":"arroz"}`}}}},
		{Message: models.ToolMessage{Content: "precios", ToolCallID: "call_1"}},
		{Message: models.AssistantMessage{Content: "El arroz cuesta 12.000"}},
	}
}

func TestNewService_Validation(t *testing.T) {
	_, err := session.NewService(nil)
	assert.Error(t, err)

	_, err = session.NewService(&session.Config{Encryptor: encryption.NewNoOpEncryptor()})
	assert.Error(t, err)
}

func TestService_BuildCacheKey(t *testing.T) {
	svc, _ := setupService(t, encryption.NewNoOpEncryptor())
	assert.Equal(t, "pricechat:session:conv-1", svc.BuildCacheKey("conv-1"))
}

func TestService_SaveAndGet(t *testing.T) {
	svc, mr := setupService(t, newAESEncryptor(t))
	ctx := context.Background()

	require.NoError(t, svc.SaveTranscript(ctx, "conv-1", sampleTranscript()))

	assert.True(t, mr.Exists("pricechat:session:conv-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("pricechat:session:conv-1"))

	raw, err := mr.Get("pricechat:session:conv-1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "arroz")

	entries, err := svc.GetTranscript(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, sampleTranscript(), entries)
}

func TestService_GetMissing(t *testing.T) {
	svc, _ := setupService(t, encryption.NewNoOpEncryptor())

	entries, err := svc.GetTranscript(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestService_UnreadableSnapshotIsDiscarded(t *testing.T) {
	svc, mr := setupService(t, newAESEncryptor(t))
	ctx := context.Background()

	require.NoError(t, mr.Set("pricechat:session:conv-1", "garbage"))

	entries, err := svc.GetTranscript(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, entries)
	assert.False(t, mr.Exists("pricechat:session:conv-1"))
}

func TestService_CorruptJSONIsDiscarded(t *testing.T) {
	enc := encryption.NewNoOpEncryptor()
	svc, mr := setupService(t, enc)

	sealed, err := enc.Encrypt([]byte("{not json"))
	require.NoError(t, err)
	require.NoError(t, mr.Set("pricechat:session:conv-1", sealed))

	entries, err := svc.GetTranscript(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Nil(t, entries)
	assert.False(t, mr.Exists("pricechat:session:conv-1"))
}

func TestService_Delete(t *testing.T) {
	svc, mr := setupService(t, encryption.NewNoOpEncryptor())
	ctx := context.Background()

	require.NoError(t, svc.SaveTranscript(ctx, "conv-1", sampleTranscript()))
	require.NoError(t, svc.DeleteTranscript(ctx, "conv-1"))

	assert.False(t, mr.Exists("pricechat:session:conv-1"))
	require.NoError(t, svc.DeleteTranscript(ctx, "conv-1"))
}

func TestService_SaveRequiresID(t *testing.T) {
	svc, _ := setupService(t, encryption.NewNoOpEncryptor())
	assert.Error(t, svc.SaveTranscript(context.Background(), "", sampleTranscript()))
}

func TestService_CacheUnavailable(t *testing.T) {
	svc, mr := setupService(t, encryption.NewNoOpEncryptor())
	mr.Close()

	_, err := svc.GetTranscript(context.Background(), "conv-1")
	assert.Error(t, err)
	assert.Error(t, svc.SaveTranscript(context.Background(), "conv-1", sampleTranscript()))
}

func TestService_SaveKeepsCreationTime(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redis.NewCacheWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), 0)
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, err := session.NewService(&session.Config{
		Cache:     c,
		Encryptor: newAESEncryptor(t),
		TTL:       10 * time.Minute,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)
	ctx := context.Background()

	created := now
	require.NoError(t, svc.SaveTranscript(ctx, "conv-1", sampleTranscript()[:2]))

	now = now.Add(5 * time.Minute)
	require.NoError(t, svc.SaveTranscript(ctx, "conv-1", sampleTranscript()))

	snapshot, err := svc.GetSnapshot(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.True(t, created.Equal(snapshot.CreatedAt), "created %v", snapshot.CreatedAt)
	assert.True(t, now.Equal(snapshot.UpdatedAt), "updated %v", snapshot.UpdatedAt)
	assert.Len(t, snapshot.Records, len(sampleTranscript()))

	// a reset conversation starts a new lifetime
	require.NoError(t, svc.DeleteTranscript(ctx, "conv-1"))
	now = now.Add(time.Minute)
	require.NoError(t, svc.SaveTranscript(ctx, "conv-1", sampleTranscript()))

	snapshot, err = svc.GetSnapshot(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, now.Equal(snapshot.CreatedAt))
}

func TestService_GetSnapshotMissing(t *testing.T) {
	svc, _ := setupService(t, encryption.NewNoOpEncryptor())

	snapshot, err := svc.GetSnapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
