package sync

import (
	"context"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// Adapter defines the interface every provider adapter implements: fetch
// raw data from a third-party API and convert it into normalized activity
// records. The summary pipeline only depends on this output contract.
type Adapter interface {
	// Provider returns the provider this adapter serves.
	Provider() models.Provider

	// Fetch retrieves activity for the integration's account since the
	// given timestamp, converted to activity records.
	Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error)

	// HealthCheck verifies the adapter can reach its API.
	HealthCheck(ctx context.Context) error
}

// AdapterConfig holds common configuration for adapters.
type AdapterConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxPageSize int
}
