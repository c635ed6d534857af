package middleware_test

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/memory"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/persistence/middleware"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.RunStore, cfg middleware.EncryptionConfig) ports.RunStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return mw(next)
}

func sampleRun(id, content string) *domain.RunResult {
	return &domain.RunResult{
		ID:       id,
		Workflow: "sop",
		Seed:     "secret idea",
		Status:   domain.RunCompleted,
		Success:  true,
		Log: []domain.Message{
			{Seq: 0, Topic: domain.OriginTopic, Content: "secret idea"},
			{Seq: 1, Topic: "Scope", Content: content, SentFrom: "Planner"},
		},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewRunStore()
	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	if err := secure.Save(ctx, sampleRun("r1", "my-secret-sauce")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlying.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored.Seed != "" || len(stored.Log) != 1 || stored.Log[0].Topic != middleware.EnvelopeTopic {
		t.Fatalf("Expected an opaque envelope, got %+v", stored)
	}
	if strings.Contains(stored.Log[0].Content, "my-secret-sauce") {
		t.Fatal("Expected content to be hidden")
	}
	if stored.Status != domain.RunCompleted {
		t.Errorf("Expected status to stay readable, got %s", stored.Status)
	}

	loaded, err := secure.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Log[1].Content != "my-secret-sauce" || loaded.Seed != "secret idea" {
		t.Errorf("Expected decrypted run, got %+v", loaded)
	}

	ids, err := secure.List(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "r1" {
		t.Errorf("List = %v, %v", ids, err)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewRunStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	if err := secureOld.Save(ctx, sampleRun("r1", "encrypted-with-old-key")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureNew := encrypted(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := secureNew.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Log[1].Content != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	loaded.Log[1].Content = "encrypted-with-new-key"
	if err := secureNew.Save(ctx, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureOld.Load(ctx, "r1"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainRunRejected(t *testing.T) {
	underlying := memory.NewRunStore()
	if err := underlying.Save(context.Background(), sampleRun("plain", "x")); err != nil {
		t.Fatal(err)
	}

	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secure.Load(context.Background(), "plain")
	if !errors.Is(err, middleware.ErrNotEncrypted) {
		t.Errorf("Expected ErrNotEncrypted, got %v", err)
	}

	_, err = secure.Load(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
}
