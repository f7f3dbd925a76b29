package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"chapkhane/internal/shop"

	"github.com/google/uuid"
)

func TestOrderRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		o := &shop.Order{
			ID:        uuid.New(),
			Status:    shop.StatusNew,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if i == 1 {
			o.Status = shop.StatusCompleted
		}
		if err := repo.Save(ctx, o); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := repo.List(ctx, shop.OrderFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Fatalf("unexpected order: %+v", all)
	}

	newOnly, _ := repo.List(ctx, shop.OrderFilter{Status: shop.StatusNew, Limit: 1})
	if len(newOnly) != 1 || newOnly[0].Status != shop.StatusNew {
		t.Fatalf("filter not applied: %+v", newOnly)
	}
}

func TestOrderRepositoryFindByIDPrefix(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ids := []string{
		"0badf00d-0000-4000-8000-000000000001",
		"0badf00d-0000-4000-8000-000000000002",
		"0badf00d-0000-4000-8000-000000000003",
		"deadbeef-0000-4000-8000-000000000004",
	}
	for i, id := range ids {
		o := &shop.Order{ID: uuid.MustParse(id), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Save(ctx, o); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := repo.FindByIDPrefix(ctx, "0badf00d", 2)
	if err != nil {
		t.Fatalf("FindByIDPrefix failed: %v", err)
	}
	if len(got) != 2 || got[0].ID.String() != ids[2] {
		t.Fatalf("want the two newest matches, got %+v", got)
	}
	if got, _ := repo.FindByIDPrefix(ctx, "deadbeef", 2); len(got) != 1 {
		t.Errorf("single match: got %d", len(got))
	}
	if got, _ := repo.FindByIDPrefix(ctx, "ffff", 2); len(got) != 0 {
		t.Errorf("no match: got %d", len(got))
	}
}

func TestOrderRepositoryCopiesOnSave(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := &shop.Order{ID: uuid.New(), Status: shop.StatusNew}
	o.Spec.AddOns = []string{"embossing"}
	_ = repo.Save(ctx, o)

	o.Spec.AddOns[0] = "foil_stamping"
	o.Status = shop.StatusCancelled

	got, err := repo.FindByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != shop.StatusNew || got.Spec.AddOns[0] != "embossing" {
		t.Errorf("stored order changed through caller's pointer: %+v", got)
	}
}

func TestRepositoriesReportNotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	if _, err := NewOrderRepository().FindByID(ctx, id); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("orders: got %v", err)
	}
	if err := NewOrderRepository().UpdateStatus(ctx, id, shop.StatusProcessing, time.Now()); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("orders status: got %v", err)
	}
	if err := NewOfferingRepository().Delete(ctx, id); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("offerings: got %v", err)
	}
	if err := NewMessageRepository().MarkRead(ctx, id); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("messages: got %v", err)
	}
}

func TestMessageRepositoryUnreadFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	a := &shop.Message{ID: uuid.New(), Body: "a"}
	b := &shop.Message{ID: uuid.New(), Body: "b"}
	_ = repo.Save(ctx, a)
	_ = repo.Save(ctx, b)

	if err := repo.MarkRead(ctx, a.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	unread, _ := repo.List(ctx, true)
	if len(unread) != 1 || unread[0].ID != b.ID {
		t.Fatalf("unexpected unread list: %+v", unread)
	}
}

func TestLimiterWindow(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(2, time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "quote:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if ok != want {
			t.Fatalf("call %d: got %v, want %v", i+1, ok, want)
		}
	}
	if ok, _ := l.Allow(ctx, "quote:5.6.7.8"); !ok {
		t.Error("keys must be limited independently")
	}

	now = now.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "quote:1.2.3.4"); !ok {
		t.Error("window did not reset")
	}
}
