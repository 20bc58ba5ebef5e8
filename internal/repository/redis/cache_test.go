package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baltabekpro/tr-velMap/internal/repository"
)

func TestCacheRepository_SetAndGet(t *testing.T) {
	cache := NewCacheRepository(newTestRedis(t), "travelmap:weather")
	ctx := context.Background()

	if err := cache.Set(ctx, "current:43.2380:76.9490", `{"temp":22}`, time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	value, err := cache.Get(ctx, "current:43.2380:76.9490")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != `{"temp":22}` {
		t.Fatalf("unexpected cached value: %s", value)
	}
}

func TestCacheRepository_GetMiss(t *testing.T) {
	cache := NewCacheRepository(newTestRedis(t), "travelmap:weather")

	if _, err := cache.Get(context.Background(), "absent"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestCacheRepository_Delete(t *testing.T) {
	cache := NewCacheRepository(newTestRedis(t), "travelmap:weather")
	ctx := context.Background()

	if err := cache.Set(ctx, "forecast:43.2380:76.9490:7", "[]", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := cache.Delete(ctx, "forecast:43.2380:76.9490:7"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := cache.Get(ctx, "forecast:43.2380:76.9490:7"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected miss after delete, got %v", err)
	}

	// Deleting again stays quiet.
	if err := cache.Delete(ctx, "forecast:43.2380:76.9490:7"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestCacheRepository_PrefixIsolation(t *testing.T) {
	client := newTestRedis(t)
	weather := NewCacheRepository(client, "weather")
	chat := NewCacheRepository(client, "chat")
	ctx := context.Background()

	if err := weather.Set(ctx, "shared-key", "weather-value", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if _, err := chat.Get(ctx, "shared-key"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected prefix isolation, got %v", err)
	}
}
