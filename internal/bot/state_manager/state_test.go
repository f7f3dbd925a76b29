package state_manager

import (
	"context"
	"errors"
	"testing"

	"chapkhane/internal/storage/memory"
	"chapkhane/internal/storage/redis"
)

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()
	m := New(memory.NewDialogStore())

	err := m.UpdateDraft(ctx, 7, "material", func(d *redis.Draft) error {
		d.Spec.PaperSize = "a4"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	state, err := m.GetUserDialogState(ctx, 7)
	if err != nil {
		t.Fatalf("GetUserDialogState failed: %v", err)
	}
	if state.Step != "material" || state.Draft == nil || state.Draft.Spec.PaperSize != "a4" {
		t.Fatalf("unexpected state: %+v", state)
	}

	boom := errors.New("boom")
	err = m.UpdateDraft(ctx, 7, "weight", func(d *redis.Draft) error {
		d.Spec.PaperSize = "a5"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	state, _ = m.GetUserDialogState(ctx, 7)
	if state.Step != "material" || state.Draft.Spec.PaperSize != "a4" {
		t.Errorf("failed update leaked into state: %+v", state)
	}
}

func TestResetKeepsUserData(t *testing.T) {
	ctx := context.Background()
	m := New(memory.NewDialogStore())

	if err := m.SetUserData(ctx, 7, "Reza", "+989123456789"); err != nil {
		t.Fatalf("SetUserData failed: %v", err)
	}
	_ = m.UpdateDraft(ctx, 7, "quantity", func(d *redis.Draft) error {
		d.Spec.Quantity = 500
		return nil
	})

	if err := m.ResetDialogState(ctx, 7, "paper_size"); err != nil {
		t.Fatalf("ResetDialogState failed: %v", err)
	}
	state, _ := m.GetUserDialogState(ctx, 7)
	if state.Step != "paper_size" || state.Draft.Spec.Quantity != 0 {
		t.Errorf("draft not reset: %+v", state)
	}
	if state.Userdata == nil || state.Userdata.PhoneNumber != "+989123456789" {
		t.Errorf("user data lost: %+v", state.Userdata)
	}

	if err := m.ClearState(ctx, 7); err != nil {
		t.Fatalf("ClearState failed: %v", err)
	}
	state, _ = m.GetUserDialogState(ctx, 7)
	if state.Userdata != nil || state.Step != "" {
		t.Errorf("state not cleared: %+v", state)
	}
}
