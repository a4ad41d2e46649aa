package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/cart"
	"github.com/Cyril-dot/billionBackend/internal/catalog"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalog.Product{}, &catalog.ProductImage{},
		&cart.Item{}, &Order{}, &OrderItem{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testServices(t *testing.T) (*Service, *cart.Service, *catalog.Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	cat := catalog.NewService(db)
	cartSvc := cart.NewService(db, cat)
	return NewService(db, cartSvc), cartSvc, cat, db
}

func seedProduct(t *testing.T, cat *catalog.Service, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := cat.Create(context.Background(), "merchant-1", catalog.ProductInput{
		Name:     name,
		Price:    price,
		Category: "laptops",
		Stock:    stock,
	})
	if err != nil {
		t.Fatalf("seed product %q: %v", name, err)
	}
	return p
}

func TestPlace_CreatesOrderAndClearsCart(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	p := seedProduct(t, cat, "XPS 13", 999, 5)

	if _, err := cartSvc.Add(context.Background(), "cust-1", p.ID, 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	o, err := svc.Place(context.Background(), "cust-1", "12 Laptop Lane")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}
	if o.Total != 999*2 {
		t.Fatalf("unexpected total %v", o.Total)
	}
	if len(o.Items) != 1 || o.Items[0].ProductName != "XPS 13" || o.Items[0].UnitPrice != 999 {
		t.Fatalf("unexpected frozen items: %+v", o.Items)
	}

	// stock deducted
	got, err := cat.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", got.Stock)
	}

	// cart emptied
	n, err := cartSvc.Count(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty cart after placing, got %d", n)
	}
}

func TestPlace_EmptyCart(t *testing.T) {
	svc, _, _, _ := testServices(t)

	if _, err := svc.Place(context.Background(), "cust-1", "addr"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlace_InsufficientStockRollsBack(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	p := seedProduct(t, cat, "XPS 13", 999, 1)

	if _, err := cartSvc.Add(context.Background(), "cust-1", p.ID, 3); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if _, err := svc.Place(context.Background(), "cust-1", "addr"); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// nothing committed: stock untouched, cart intact
	got, err := cat.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("expected stock 1 after rollback, got %d", got.Stock)
	}
	n, err := cartSvc.Count(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected cart kept after rollback, got %d items", n)
	}
}

func placeTestOrder(t *testing.T, svc *Service, cartSvc *cart.Service, cat *catalog.Service, stock int) (*Order, *catalog.Product) {
	t.Helper()
	p := seedProduct(t, cat, "XPS 13", 999, stock)
	if _, err := cartSvc.Add(context.Background(), "cust-1", p.ID, 1); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	o, err := svc.Place(context.Background(), "cust-1", "addr")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	return o, p
}

func TestUpdateStatus_Transitions(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	o, _ := placeTestOrder(t, svc, cartSvc, cat, 5)

	for _, next := range []Status{StatusConfirmed, StatusShipped, StatusDelivered} {
		got, err := svc.UpdateStatus(context.Background(), o.ID, next)
		if err != nil {
			t.Fatalf("to %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("expected %s, got %s", next, got.Status)
		}
	}

	// delivered may only move to cancelled
	if _, err := svc.UpdateStatus(context.Background(), o.ID, StatusShipped); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), o.ID, StatusCancelled); err != nil {
		t.Fatalf("delivered to cancelled: %v", err)
	}

	// cancelled is terminal
	if _, err := svc.UpdateStatus(context.Background(), o.ID, StatusPending); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition after cancel, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), o.ID, Status("LOST")); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition for unknown status, got %v", err)
	}
}

func TestCancel_RestoresStock(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	o, p := placeTestOrder(t, svc, cartSvc, cat, 5)

	got, err := svc.Cancel(context.Background(), "cust-1", o.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", got.Status)
	}

	prod, err := cat.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if prod.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", prod.Stock)
	}
}

func TestCancel_Guards(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	o, _ := placeTestOrder(t, svc, cartSvc, cat, 5)

	// someone else's order reads as absent
	if _, err := svc.Cancel(context.Background(), "cust-2", o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), o.ID, StatusShipped); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), "cust-1", o.ID); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition once shipped, got %v", err)
	}
}

func TestListByCustomer(t *testing.T) {
	svc, cartSvc, cat, _ := testServices(t)
	placeTestOrder(t, svc, cartSvc, cat, 5)

	mine, err := svc.ListByCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || len(mine[0].Items) != 1 {
		t.Fatalf("unexpected list: %+v", mine)
	}

	others, err := svc.ListByCustomer(context.Background(), "cust-2")
	if err != nil {
		t.Fatalf("list others: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("expected no orders for cust-2, got %d", len(others))
	}
}
