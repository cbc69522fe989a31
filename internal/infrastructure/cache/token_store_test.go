package cache

import (
	"context"
	"testing"
	"time"

	"doctor-appointment-api/pkg/jwt"

	"github.com/google/uuid"
)

func TestMemoryTokenStoreLifecycle(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Save(ctx, userID, "tok-1", jwt.AccessToken, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err := store.Exists(ctx, userID, "tok-1", jwt.AccessToken)
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v, want true", exists, err)
	}

	// Token types are namespaced separately
	exists, err = store.Exists(ctx, userID, "tok-1", jwt.RefreshToken)
	if err != nil || exists {
		t.Fatalf("refresh lookup = %v, %v, want false", exists, err)
	}

	if err := store.Revoke(ctx, userID, "tok-1", jwt.AccessToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	exists, err = store.Exists(ctx, userID, "tok-1", jwt.AccessToken)
	if err != nil || exists {
		t.Fatalf("exists after revoke = %v, %v, want false", exists, err)
	}
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Save(ctx, userID, "tok-1", jwt.AccessToken, -time.Second); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err := store.Exists(ctx, userID, "tok-1", jwt.AccessToken)
	if err != nil || exists {
		t.Fatalf("expired token exists = %v, %v, want false", exists, err)
	}
}
