package repositories

import (
	"context"
	"testing"

	"autotube/internal/config"
)

func TestNewJobStoreMemory(t *testing.T) {
	store, closeFn, err := NewJobStore(context.Background(), config.StoreConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Driver() != "memory" {
		t.Errorf("expected memory driver, got %s", store.Driver())
	}
	if err := closeFn(context.Background()); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewJobStoreUnknownDriver(t *testing.T) {
	if _, _, err := NewJobStore(context.Background(), config.StoreConfig{Driver: "sqlite"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
