package shop_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	placed  []shop.Order
	changes []shop.OrderStatus
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o shop.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o)
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, o shop.Order, previous shop.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, previous, o.Status)
}

type denyLimiter struct{ err error }

func (l denyLimiter) Allow(context.Context, string) (bool, error) {
	return false, l.err
}

type staticCatalog struct {
	catalog pricing.Catalog
	err     error
}

func (s staticCatalog) LoadCatalog(context.Context) (pricing.Catalog, error) {
	return s.catalog, s.err
}

// cachedCatalog serves a stale catalog until invalidated.
type cachedCatalog struct {
	stale, fresh  pricing.Catalog
	invalidations int
	cached        bool
}

func (c *cachedCatalog) LoadCatalog(context.Context) (pricing.Catalog, error) {
	if c.cached {
		return c.stale, nil
	}
	c.cached = true
	return c.fresh, nil
}

func (c *cachedCatalog) Invalidate(context.Context) error {
	c.invalidations++
	c.cached = false
	return nil
}

func newService(t *testing.T, mutate func(*shop.Deps)) *shop.Service {
	t.Helper()
	deps := shop.Deps{
		Orders:    memory.NewOrderRepository(),
		Offerings: memory.NewOfferingRepository(),
		Messages:  memory.NewMessageRepository(),
		Now:       func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&deps)
	}
	return shop.NewService(pricing.MustNewEngine(pricing.DefaultCatalog()), deps)
}

func a4Spec(quantity int) pricing.OrderSpec {
	return pricing.OrderSpec{
		PaperSize:  "a4",
		Material:   "glossy",
		Weight:     "120g",
		ColorMode:  "cmyk",
		Sides:      pricing.SidesSingle,
		Lamination: "none",
		Quantity:   quantity,
	}
}

func orderRequest(quantity int) shop.OrderRequest {
	return shop.OrderRequest{
		Spec:     a4Spec(quantity),
		Customer: shop.Customer{Name: "  مریم رضایی ", Phone: "۰۹۱۲۳۴۵۶۷۸۹"},
	}
}

func TestPlaceOrderPricesServerSide(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	notifier := &recordingNotifier{}
	svc.Subscribe(notifier)

	order, err := svc.PlaceOrder(ctx, orderRequest(100))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if !order.Quote.FinalTotal.Equal(decimal.NewFromInt(114000)) {
		t.Errorf("final total: got %s, want 114000", order.Quote.FinalTotal)
	}
	if order.Status != shop.StatusNew || order.Source != shop.SourceWeb {
		t.Errorf("unexpected status/source: %s/%s", order.Status, order.Source)
	}
	if order.Customer.Name != "مریم رضایی" || order.Customer.Phone != "+989123456789" {
		t.Errorf("customer not normalised: %+v", order.Customer)
	}
	if !order.CreatedAt.Equal(fixedNow) {
		t.Errorf("created at: got %s", order.CreatedAt)
	}

	stored, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Errorf("stored order id mismatch")
	}
	if len(notifier.placed) != 1 || notifier.placed[0].ID != order.ID {
		t.Errorf("notifier not called: %+v", notifier.placed)
	}
}

func TestPlaceOrderRejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	cases := []struct {
		name   string
		mutate func(*shop.OrderRequest)
		target error
	}{
		{"missing name", func(r *shop.OrderRequest) { r.Customer.Name = " " }, shop.ErrInvalidInput},
		{"bad phone", func(r *shop.OrderRequest) { r.Customer.Phone = "123" }, shop.ErrInvalidInput},
		{"bad email", func(r *shop.OrderRequest) { r.Customer.Email = "not-an-email" }, shop.ErrInvalidInput},
		{"bad spec", func(r *shop.OrderRequest) { r.Spec.Material = "vinyl" }, pricing.ErrInvalidSpecification},
		{"incomplete custom size", func(r *shop.OrderRequest) { r.Spec.PaperSize = pricing.CustomSize }, pricing.ErrIncompleteDimensions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := orderRequest(100)
			tc.mutate(&req)
			if _, err := svc.PlaceOrder(ctx, req); !errors.Is(err, tc.target) {
				t.Fatalf("got %v, want %v", err, tc.target)
			}
		})
	}

	orders, _ := svc.ListOrders(ctx, shop.OrderFilter{})
	if len(orders) != 0 {
		t.Errorf("rejected requests must not be stored, got %d orders", len(orders))
	}
}

func TestRateLimiting(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, func(d *shop.Deps) { d.Limiter = denyLimiter{} })

	if _, err := svc.Quote(ctx, "1.2.3.4", a4Spec(10)); !errors.Is(err, shop.ErrRateLimited) {
		t.Fatalf("quote: got %v", err)
	}
	req := orderRequest(10)
	req.ClientKey = "1.2.3.4"
	if _, err := svc.PlaceOrder(ctx, req); !errors.Is(err, shop.ErrRateLimited) {
		t.Fatalf("order: got %v", err)
	}
	if _, err := svc.Quote(ctx, "", a4Spec(10)); err != nil {
		t.Fatalf("empty client key must bypass the limiter: %v", err)
	}
}

func TestRateLimiterFailureAllowsRequest(t *testing.T) {
	svc := newService(t, func(d *shop.Deps) { d.Limiter = denyLimiter{err: errors.New("redis down")} })

	if _, err := svc.Quote(context.Background(), "1.2.3.4", a4Spec(10)); err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	notifier := &recordingNotifier{}
	svc.Subscribe(notifier)

	order, err := svc.PlaceOrder(ctx, orderRequest(100))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, shop.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if updated.Status != shop.StatusProcessing {
		t.Errorf("status: got %s", updated.Status)
	}
	if _, err := svc.UpdateOrderStatus(ctx, order.ID, shop.StatusCompleted); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, order.ID, shop.StatusNew); !errors.Is(err, shop.ErrInvalidStatus) {
		t.Fatalf("leaving a terminal status: got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, order.ID, "shipped"); !errors.Is(err, shop.ErrInvalidInput) {
		t.Fatalf("unknown status: got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, uuid.New(), shop.StatusProcessing); !errors.Is(err, shop.ErrNotFound) {
		t.Fatalf("unknown order: got %v", err)
	}

	want := []shop.OrderStatus{shop.StatusNew, shop.StatusProcessing, shop.StatusProcessing, shop.StatusCompleted}
	if len(notifier.changes) != len(want) {
		t.Fatalf("notifications: got %v", notifier.changes)
	}
	for i := range want {
		if notifier.changes[i] != want[i] {
			t.Errorf("notification %d: got %s, want %s", i, notifier.changes[i], want[i])
		}
	}
}

func TestFindOrderByShortID(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	order, err := svc.PlaceOrder(ctx, orderRequest(10))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	got, err := svc.FindOrderByShortID(ctx, "#"+order.ShortID())
	if err != nil {
		t.Fatalf("FindOrderByShortID failed: %v", err)
	}
	if got.ID != order.ID {
		t.Errorf("got %s, want %s", got.ID, order.ID)
	}
	if _, err := svc.FindOrderByShortID(ctx, "zzzzzzzz"); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("unknown short id: got %v", err)
	}
	if _, err := svc.FindOrderByShortID(ctx, "%"); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("wildcard short id: got %v", err)
	}
}

func TestFindOrderByShortIDAmbiguous(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	svc := newService(t, func(d *shop.Deps) { d.Orders = repo })

	for i, id := range []string{
		"abcdef12-0000-4000-8000-000000000001",
		"abcdef12-0000-4000-8000-000000000002",
		"abcdef99-0000-4000-8000-000000000003",
	} {
		order := &shop.Order{
			ID:        uuid.MustParse(id),
			Status:    shop.StatusNew,
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(ctx, order); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if _, err := svc.FindOrderByShortID(ctx, "abcdef12"); !errors.Is(err, shop.ErrAmbiguousID) {
		t.Fatalf("shared prefix: got %v, want ErrAmbiguousID", err)
	}
	got, err := svc.FindOrderByShortID(ctx, "ABCDEF99")
	if err != nil {
		t.Fatalf("FindOrderByShortID failed: %v", err)
	}
	if got.ID.String() != "abcdef99-0000-4000-8000-000000000003" {
		t.Errorf("got %s", got.ID)
	}
	full, err := svc.FindOrderByShortID(ctx, "abcdef12-0000-4000-8000-000000000002")
	if err != nil || full.ID.String() != "abcdef12-0000-4000-8000-000000000002" {
		t.Errorf("full id lookup: %v %v", full, err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	first, _ := svc.PlaceOrder(ctx, orderRequest(100))   // 114000
	second, _ := svc.PlaceOrder(ctx, orderRequest(1000)) // 1020000
	if _, err := svc.UpdateOrderStatus(ctx, second.ID, shop.StatusCancelled); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	_, err := svc.SubmitMessage(ctx, shop.MessageRequest{Name: "Ali", Email: "ali@example.com", Body: "سلام"})
	if err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalOrders != 2 || stats.ByStatus[shop.StatusCancelled] != 1 || stats.ByStatus[shop.StatusNew] != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if !stats.Revenue.Equal(first.Quote.FinalTotal) || !stats.TodayRevenue.Equal(first.Quote.FinalTotal) {
		t.Errorf("revenue must exclude cancelled orders: %s / %s", stats.Revenue, stats.TodayRevenue)
	}
	if stats.TodayOrders != 1 || stats.UnreadMessages != 1 {
		t.Errorf("today orders %d, unread %d", stats.TodayOrders, stats.UnreadMessages)
	}
}

func TestReloadCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := pricing.DefaultCatalog()
	catalog.PaperSizes[1].BasePrice = decimal.NewFromInt(2400)

	svc := newService(t, func(d *shop.Deps) { d.Catalogs = staticCatalog{catalog: catalog} })
	if err := svc.ReloadCatalog(ctx); err != nil {
		t.Fatalf("ReloadCatalog failed: %v", err)
	}
	q, err := svc.Quote(ctx, "", a4Spec(1))
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !q.UnitPrice.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("reloaded catalog not used: unit price %s", q.UnitPrice)
	}

	broken := pricing.DefaultCatalog()
	broken.Laminations = nil
	svc = newService(t, func(d *shop.Deps) { d.Catalogs = staticCatalog{catalog: broken} })
	if err := svc.ReloadCatalog(ctx); err == nil {
		t.Fatal("expected invalid catalog to be rejected")
	}
	if _, err := svc.Quote(ctx, "", a4Spec(1)); err != nil {
		t.Fatalf("previous engine must stay in place: %v", err)
	}

	svc = newService(t, nil)
	if err := svc.ReloadCatalog(ctx); !errors.Is(err, shop.ErrNoCatalog) {
		t.Fatalf("got %v, want ErrNoCatalog", err)
	}
}

func TestReloadCatalogInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	fresh := pricing.DefaultCatalog()
	fresh.PaperSizes[1].BasePrice = decimal.NewFromInt(2600)
	source := &cachedCatalog{stale: pricing.DefaultCatalog(), fresh: fresh, cached: true}

	svc := newService(t, func(d *shop.Deps) { d.Catalogs = source })
	if err := svc.ReloadCatalog(ctx); err != nil {
		t.Fatalf("ReloadCatalog failed: %v", err)
	}
	if source.invalidations != 1 {
		t.Fatalf("invalidations: got %d, want 1", source.invalidations)
	}
	q, err := svc.Quote(ctx, "", a4Spec(1))
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !q.UnitPrice.Equal(decimal.NewFromInt(2600)) {
		t.Errorf("stale catalog served: unit price %s", q.UnitPrice)
	}
}

func TestOfferings(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	if err := svc.SeedOfferings(ctx); err != nil {
		t.Fatalf("SeedOfferings failed: %v", err)
	}
	if err := svc.SeedOfferings(ctx); err != nil {
		t.Fatalf("second SeedOfferings failed: %v", err)
	}
	list, _ := svc.ListOfferings(ctx, false)
	if len(list) != len(shop.DefaultOfferings()) {
		t.Fatalf("seeding must run once, got %d offerings", len(list))
	}
	if list[0].Slug != "business-cards" {
		t.Errorf("offerings not sorted: first is %s", list[0].Slug)
	}

	list[0].Active = false
	if err := svc.SaveOffering(ctx, &list[0]); err != nil {
		t.Fatalf("SaveOffering failed: %v", err)
	}
	active, _ := svc.ListOfferings(ctx, true)
	if len(active) != len(list)-1 {
		t.Errorf("active filter: got %d", len(active))
	}

	bad := &shop.Offering{Slug: "Bad Slug", TitleFa: "x"}
	if err := svc.SaveOffering(ctx, bad); !errors.Is(err, shop.ErrInvalidInput) {
		t.Errorf("bad slug: got %v", err)
	}
	ghost := &shop.Offering{ID: uuid.New(), Slug: "ghost", TitleFa: "x"}
	if err := svc.SaveOffering(ctx, ghost); !errors.Is(err, shop.ErrNotFound) {
		t.Errorf("update of unknown offering: got %v", err)
	}
	if err := svc.DeleteOffering(ctx, list[0].ID); err != nil {
		t.Fatalf("DeleteOffering failed: %v", err)
	}
}

func TestSubmitMessage(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	msg, err := svc.SubmitMessage(ctx, shop.MessageRequest{Name: "Sara", Phone: "09351234567", Body: "قیمت جعبه؟"})
	if err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if msg.Phone != "+989351234567" || msg.Read {
		t.Errorf("unexpected message: %+v", msg)
	}
	if err := svc.MarkMessageRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkMessageRead failed: %v", err)
	}
	unread, _ := svc.ListMessages(ctx, true)
	if len(unread) != 0 {
		t.Errorf("message still unread")
	}

	rejects := []shop.MessageRequest{
		{Name: "", Email: "a@b.co", Body: "x"},
		{Name: "A", Email: "a@b.co", Body: " "},
		{Name: "A", Body: "no contact"},
		{Name: "A", Email: "Sara <a@b.co>", Body: "x"},
	}
	for i, req := range rejects {
		if _, err := svc.SubmitMessage(ctx, req); !errors.Is(err, shop.ErrInvalidInput) {
			t.Errorf("request %d: got %v", i, err)
		}
	}
}
