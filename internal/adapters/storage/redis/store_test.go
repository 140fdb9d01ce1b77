package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/domain"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "chat_messages:u1", Key("u1"))
}

func TestEncodeDecode(t *testing.T) {
	msg := &domain.Message{
		ID:        "m1",
		UserID:    "u1",
		Content:   "I feel a bit better",
		Role:      domain.RoleUser,
		CreatedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}

	data, err := encode(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_id":"u1"`)

	got, err := decode(string(data))
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.Content, got.Content)
	assert.True(t, msg.CreatedAt.Equal(got.CreatedAt))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode("not-json")
	assert.Error(t, err)
}

func TestNewStoreRejectsBadURL(t *testing.T) {
	_, err := NewStore(context.Background(), "::not a url")
	assert.Error(t, err)
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestListMessagesReturnsMostRecentOldestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 5, 6, 7, 0, 0, 0, time.UTC)

	for i, text := range []string{"one", "two", "three", "four"} {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:        domain.MessageID(text),
			UserID:    "u1",
			Content:   text,
			Role:      domain.RoleUser,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.ListMessages(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Content)
	assert.Equal(t, "four", got[1].Content)

	all, err := s.ListMessages(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := s.ListMessages(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListMessagesSkipsMalformedElements(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := mr.RPush(Key("u1"), "not-json")
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "m1", UserID: "u1", Content: "hi", Role: domain.RoleUser}))

	got, err := s.ListMessages(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)
}

func TestDeleteMessagesDropsOnlyThatUser(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "a", UserID: "u1", Content: "a"}))
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "b", UserID: "u2", Content: "b"}))

	require.NoError(t, s.DeleteMessages(ctx, "u1"))
	assert.False(t, mr.Exists(Key("u1")))

	left, err := s.ListMessages(ctx, "u2", 10)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestStoreFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := NewStoreFromClient(client)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.AppendMessage(context.Background(), &domain.Message{ID: "m1", UserID: "u1", Content: "hello"}))
	vals, err := mr.List(Key("u1"))
	require.NoError(t, err)
	assert.Len(t, vals, 1)
}
