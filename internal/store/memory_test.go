package store

import (
	"context"
	"testing"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

func TestMemoryIntegrationUpsertAssignsUniqueIDs(t *testing.T) {
	repo := NewMemoryIntegrationRepository()
	ctx := context.Background()

	// Back-to-back upserts for different users on the same provider must
	// never collide on the generated ID.
	for userID := 1; userID <= 3; userID++ {
		integration := &models.Integration{
			UserID:      userID,
			Provider:    models.ProviderGitHub,
			IsConnected: true,
		}
		if err := repo.Upsert(ctx, integration); err != nil {
			t.Fatalf("upsert user %d: %v", userID, err)
		}
		if integration.ID == "" {
			t.Fatalf("upsert did not assign an ID for user %d", userID)
		}
	}

	ids, err := repo.ListConnectedUserIDs(ctx)
	if err != nil {
		t.Fatalf("list connected users: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("connected users = %v, want all 3", ids)
	}
	for i, want := range []int{1, 2, 3} {
		if ids[i] != want {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want)
		}
	}
}

func TestMemoryIntegrationUpsertKeysOnUserAndProvider(t *testing.T) {
	repo := NewMemoryIntegrationRepository()
	ctx := context.Background()

	first := &models.Integration{UserID: 1, Provider: models.ProviderJira, IsConnected: true}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &models.Integration{UserID: 1, Provider: models.ProviderJira, IsConnected: false}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-upsert assigned new ID %q, want existing %q", second.ID, first.ID)
	}

	list, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single integration after re-upsert, got %d", len(list))
	}
	if list[0].IsConnected {
		t.Error("re-upsert did not replace the stored integration")
	}
}

func TestMemoryIntegrationUpdateLastSync(t *testing.T) {
	repo := NewMemoryIntegrationRepository()
	ctx := context.Background()

	integration := &models.Integration{UserID: 2, Provider: models.ProviderSlack, IsConnected: true}
	if err := repo.Upsert(ctx, integration); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	at := time.Date(2025, 1, 18, 8, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastSync(ctx, integration.ID, at); err != nil {
		t.Fatalf("update last sync: %v", err)
	}

	list, err := repo.ListByUser(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].LastSyncAt == nil || !list[0].LastSyncAt.Equal(at) {
		t.Errorf("last sync = %v, want %v", list[0].LastSyncAt, at)
	}
}
