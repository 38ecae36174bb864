package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marketplace-next/internal/gateway"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupGuestCartServiceTest(t *testing.T) (*GuestCartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:guest_cart_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartSnapshot{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewGuestCartService(repository.NewCartSnapshotRepository(db), 0), db
}

// fakeCartGateway 可编程的上游购物车网关
type fakeCartGateway struct {
	cart      *models.Cart
	failNext  bool
	fetchErr  error
	calls     int
	lastToken string
}

func (f *fakeCartGateway) Fetch(_ context.Context, token string) (*models.Cart, error) {
	f.calls++
	f.lastToken = token
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.cart.Clone(), nil
}

func (f *fakeCartGateway) AddItem(_ context.Context, token string, input gateway.AddItemInput) (*models.Cart, error) {
	f.calls++
	f.lastToken = token
	if f.failNext {
		return nil, errors.New("upstream down")
	}
	f.cart.MergeLine(input.ProductID, input.Name, input.Price, input.Quantity, input.Image, input.Variant)
	return f.cart.Clone(), nil
}

func (f *fakeCartGateway) UpdateItem(_ context.Context, token, lineID string, quantity int) (*models.Cart, error) {
	f.calls++
	f.lastToken = token
	if f.failNext {
		return nil, errors.New("upstream down")
	}
	f.cart.UpdateLineQuantity(lineID, quantity)
	return f.cart.Clone(), nil
}

func (f *fakeCartGateway) RemoveItem(_ context.Context, token, lineID string) (*models.Cart, error) {
	f.calls++
	f.lastToken = token
	if f.failNext {
		return nil, errors.New("upstream down")
	}
	f.cart.RemoveLine(lineID)
	return f.cart.Clone(), nil
}

func (f *fakeCartGateway) Clear(_ context.Context, token string) error {
	f.calls++
	f.lastToken = token
	if f.failNext {
		return errors.New("upstream down")
	}
	f.cart.ClearLines()
	return nil
}

func money(v float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
}

func guestSession() Session {
	return Session{ID: "session-guest"}
}

func TestCartServiceAddItemMergesSameProductAndVariant(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, guestSession(), AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 2,
		Variant: models.Variant{"size": "M", "color": "red"},
	}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	// 规格键顺序不同也应合并
	cart, err := svc.AddItem(ctx, guestSession(), AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 3,
		Variant: models.Variant{"color": "red", "size": "M"},
	})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("lines want 1 got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", cart.Items[0].Quantity)
	}
	if cart.TotalAmount.String() != "62.50" {
		t.Fatalf("total want 62.50 got %s", cart.TotalAmount.String())
	}
}

func TestCartServiceAddItemDistinctVariantsCreateDistinctLines(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, guestSession(), AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 1,
		Variant: models.Variant{"size": "M"},
	}); err != nil {
		t.Fatalf("add size M failed: %v", err)
	}
	cart, err := svc.AddItem(ctx, guestSession(), AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 1,
		Variant: models.Variant{"size": "L"},
	})
	if err != nil {
		t.Fatalf("add size L failed: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("lines want 2 got %d", len(cart.Items))
	}
	if cart.Items[0].ID == cart.Items[1].ID {
		t.Fatalf("line ids should be distinct, got %s", cart.Items[0].ID)
	}
}

func TestCartServiceTotalIsSumOfLineTotals(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Name: "A", Price: money(9.99), Quantity: 3}); err != nil {
		t.Fatalf("add p1 failed: %v", err)
	}
	cart, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p2", Name: "B", Price: money(4.5), Quantity: 2})
	if err != nil {
		t.Fatalf("add p2 failed: %v", err)
	}

	// 9.99*3 + 4.50*2 = 38.97
	if cart.TotalAmount.String() != "38.97" {
		t.Fatalf("total want 38.97 got %s", cart.TotalAmount.String())
	}
	if cart.ItemCount() != 5 {
		t.Fatalf("item count want 5 got %d", cart.ItemCount())
	}
}

func TestCartServiceAddItemValidation(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "", Quantity: 1}); !errors.Is(err, ErrCartItemInvalid) {
		t.Fatalf("empty product id want ErrCartItemInvalid got %v", err)
	}
	if _, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Quantity: 0}); !errors.Is(err, ErrCartItemInvalid) {
		t.Fatalf("zero quantity want ErrCartItemInvalid got %v", err)
	}
}

func TestCartServiceUpdateQuantityZeroRemovesLine(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Name: "A", Price: money(10), Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := cart.Items[0].ID

	removed, err := svc.UpdateQuantity(ctx, guestSession(), lineID, 0)
	if err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if len(removed.Items) != 0 {
		t.Fatalf("line should be removed, got %d lines", len(removed.Items))
	}
	if removed.TotalAmount.String() != "0.00" {
		t.Fatalf("total want 0.00 got %s", removed.TotalAmount.String())
	}
}

func TestCartServiceUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	before, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Name: "A", Price: money(10), Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	after, err := svc.UpdateQuantity(ctx, guestSession(), "no-such-line", 7)
	if err != nil {
		t.Fatalf("update unknown line failed: %v", err)
	}
	if len(after.Items) != 1 || after.Items[0].Quantity != before.Items[0].Quantity {
		t.Fatalf("unknown line update should not modify cart: %+v", after.Items)
	}
	if after.TotalAmount.String() != before.TotalAmount.String() {
		t.Fatalf("total changed: want %s got %s", before.TotalAmount.String(), after.TotalAmount.String())
	}
}

func TestCartServiceRemoveAbsentLineIsNoop(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	before, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Name: "A", Price: money(10), Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	after, err := svc.RemoveItem(ctx, guestSession(), "no-such-line")
	if err != nil {
		t.Fatalf("remove absent line failed: %v", err)
	}
	if len(after.Items) != 1 || after.TotalAmount.String() != before.TotalAmount.String() {
		t.Fatalf("remove absent line should not modify cart: %+v", after.Items)
	}
}

func TestCartServiceClearRetainsCartIdentity(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	svc := NewCartService(guest, &fakeCartGateway{}, 0)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, guestSession(), AddItemInput{ProductID: "p1", Name: "A", Price: money(10), Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cartID := cart.ID

	cleared, err := svc.Clear(ctx, guestSession())
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cleared.Items) != 0 {
		t.Fatalf("cart should be empty after clear, got %d lines", len(cleared.Items))
	}
	if cleared.TotalAmount.String() != "0.00" {
		t.Fatalf("total want 0.00 got %s", cleared.TotalAmount.String())
	}
	if cleared.ID != cartID {
		t.Fatalf("cart identity should survive clear: want %s got %s", cartID, cleared.ID)
	}
}

func TestGuestCartLoadCorruptSnapshotReturnsEmptyCart(t *testing.T) {
	guest, db := setupGuestCartServiceTest(t)
	ctx := context.Background()

	if err := db.Create(&models.CartSnapshot{
		StorageKey: StorageKey("session-guest"),
		Payload:    `{not json at all`,
	}).Error; err != nil {
		t.Fatalf("seed corrupt snapshot failed: %v", err)
	}

	cart := guest.Load(ctx, "session-guest")
	if cart == nil {
		t.Fatalf("load should never return nil")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("corrupt snapshot should resolve to empty cart, got %d lines", len(cart.Items))
	}
	if cart.ID == "" {
		t.Fatalf("fresh cart should have an id")
	}
}

func TestGuestCartSaveThenLoadRoundTrip(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart := models.NewGuestCart()
	cart.MergeLine("p1", "Tee", money(12.5), 2, "tee.jpg", models.Variant{"size": "M"})
	if err := guest.Save(ctx, "session-guest", cart); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := guest.Load(ctx, "session-guest")
	if loaded.ID != cart.ID {
		t.Fatalf("cart id want %s got %s", cart.ID, loaded.ID)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 2 {
		t.Fatalf("loaded cart lines mismatch: %+v", loaded.Items)
	}
	if loaded.Items[0].Variant["size"] != "M" {
		t.Fatalf("variant not round-tripped: %+v", loaded.Items[0].Variant)
	}
	if loaded.TotalAmount.String() != "25.00" {
		t.Fatalf("total want 25.00 got %s", loaded.TotalAmount.String())
	}
}

func TestCartServiceRemoteFetchFailureFallsBackToGuestCart(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart := models.NewGuestCart()
	cart.MergeLine("p1", "Tee", money(12.5), 2, "", nil)
	if err := guest.Save(ctx, "session-guest", cart); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}

	gw := &fakeCartGateway{fetchErr: errors.New("upstream down")}
	svc := NewCartService(guest, gw, 0)

	got, err := svc.Get(ctx, Session{ID: "session-guest", Token: "token-1"})
	if err != nil {
		t.Fatalf("get should fall back, not error: %v", err)
	}
	if got.ID != cart.ID {
		t.Fatalf("fallback should serve guest cart: want %s got %s", cart.ID, got.ID)
	}
}

func TestCartServiceRemoteMutationFailureReturnsSyncError(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	gw := &fakeCartGateway{cart: &models.Cart{ID: "cart-remote", Items: []models.CartLine{}}, failNext: true}
	svc := NewCartService(guest, gw, 0)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Session{ID: "session-guest", Token: "token-1"}, AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 1,
	})
	if !errors.Is(err, ErrCartSyncFailed) {
		t.Fatalf("remote failure want ErrCartSyncFailed got %v", err)
	}
}

func TestCartServiceRemoteMutationForwardsToken(t *testing.T) {
	guest, _ := setupGuestCartServiceTest(t)
	gw := &fakeCartGateway{cart: &models.Cart{ID: "cart-remote", Items: []models.CartLine{}}}
	svc := NewCartService(guest, gw, 0)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, Session{ID: "session-guest", Token: "token-9"}, AddItemInput{
		ProductID: "p1", Name: "Tee", Price: money(12.5), Quantity: 1,
	})
	if err != nil {
		t.Fatalf("remote add failed: %v", err)
	}
	if gw.lastToken != "token-9" {
		t.Fatalf("token want token-9 got %s", gw.lastToken)
	}
	if cart.ID != "cart-remote" {
		t.Fatalf("remote cart expected, got %s", cart.ID)
	}
}
