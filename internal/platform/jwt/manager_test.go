package jwtmw

import (
	"errors"
	"testing"
	"time"
)

// TestManager_GenerateAndVerify は注入した時計と鍵でトークンの発行・検証ができることを検証します。
func TestManager_GenerateAndVerify(t *testing.T) {
	t.Parallel()

	now := t0
	m := NewManager("test-secret", WithClock(func() time.Time { return now }))

	token, err := m.GenerateToken(11, "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != 11 || id.Email != "user@example.com" {
		t.Errorf("unexpected identity %+v", id)
	}

	now = t0.Add(25 * time.Hour)
	if _, err := m.Verify(token); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestManager_DifferentSecretsRejectEachOther(t *testing.T) {
	t.Parallel()

	a := NewManager("secret-a")
	b := NewManager("secret-b")

	token, err := a.GenerateToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestNewManager_EmptySecret(t *testing.T) {
	t.Parallel()

	m := NewManager("")
	if _, err := m.GenerateToken(1, "user@example.com"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
}
