package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	products map[uint64]ProductSnapshot
}

func (f *fakeCatalog) ProductSnapshot(ctx context.Context, productID uint64) (ProductSnapshot, error) {
	_ = ctx
	p, ok := f.products[productID]
	if !ok {
		return ProductSnapshot{}, ErrProductNotFound
	}
	return p, nil
}

type fakeDirectory struct {
	customers map[string]Party
	merchants map[string]Party
}

func (f *fakeDirectory) Customer(ctx context.Context, id string) (Party, error) {
	_ = ctx
	p, ok := f.customers[id]
	if !ok {
		return Party{}, ErrPartyNotFound
	}
	return p, nil
}

func (f *fakeDirectory) Merchant(ctx context.Context, id string) (Party, error) {
	_ = ctx
	p, ok := f.merchants[id]
	if !ok {
		return Party{}, ErrPartyNotFound
	}
	return p, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Room{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)

	cat := &fakeCatalog{products: map[uint64]ProductSnapshot{
		42: {
			ID:          42,
			Name:        "XPS 13",
			PriceText:   "999.00",
			Description: "",
			ImageURL:    "https://cdn.example.com/xps13.jpg",
			MerchantID:  "merchant-1",
		},
		43: {
			ID:          43,
			Name:        "ThinkPad X1",
			PriceText:   "1450.50",
			Description: "14 inch ultrabook",
			ImageURL:    "https://cdn.example.com/x1.jpg",
			MerchantID:  "merchant-1",
		},
	}}
	dir := &fakeDirectory{
		customers: map[string]Party{
			"cust-1": {ID: "cust-1", Name: "Ada Lovelace", Email: "ada@example.com"},
			"cust-2": {ID: "cust-2", Name: "Grace Hopper", Email: "grace@example.com"},
		},
		merchants: map[string]Party{
			"merchant-1": {ID: "merchant-1", Name: "Billions Laptops", Email: "shop@example.com"},
		},
	}
	return NewService(NewRepo(db), cat, dir), db
}

func TestStartRoom_CreatesRoomWithProductCard(t *testing.T) {
	svc, db := testService(t)

	view, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}
	if view.RoomID == 0 {
		t.Fatalf("expected room id to be set")
	}
	if view.Title != "XPS 13" {
		t.Fatalf("expected title to be the product name, got %q", view.Title)
	}
	if view.ProductPrice != "$999.00" {
		t.Fatalf("unexpected price: %q", view.ProductPrice)
	}
	if view.MerchantName != "Billions Laptops" || view.CustomerName != "Ada Lovelace" {
		t.Fatalf("unexpected parties: merchant=%q customer=%q", view.MerchantName, view.CustomerName)
	}

	var msgs []Message
	if err := db.Where("room_id = ?", view.RoomID).Order("id ASC").Find(&msgs).Error; err != nil {
		t.Fatalf("query messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 opening message, got %d", len(msgs))
	}
	card := msgs[0]
	if !card.ProductCard {
		t.Fatalf("expected first message to be a product card")
	}
	if card.SenderRole != RoleCustomer || card.SenderID != "cust-1" {
		t.Fatalf("unexpected card sender: role=%q id=%q", card.SenderRole, card.SenderID)
	}
	want := "PRODUCT_CARD::XPS 13::999.00::No description::https://cdn.example.com/xps13.jpg"
	if card.Content != want {
		t.Fatalf("unexpected card content:\n got %q\nwant %q", card.Content, want)
	}
}

func TestStartRoom_SecondStartReturnsExistingRoom(t *testing.T) {
	svc, db := testService(t)

	first, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if first.RoomID != second.RoomID {
		t.Fatalf("expected same room, got %d and %d", first.RoomID, second.RoomID)
	}

	var roomCount int64
	if err := db.Model(&Room{}).Count(&roomCount).Error; err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if roomCount != 1 {
		t.Fatalf("expected 1 room, got %d", roomCount)
	}

	var cardCount int64
	if err := db.Model(&Message{}).Where("room_id = ? AND product_card = ?", first.RoomID, true).
		Count(&cardCount).Error; err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if cardCount != 1 {
		t.Fatalf("expected 1 product card, got %d", cardCount)
	}
}

func TestStartRoom_DistinctProductsGetDistinctRooms(t *testing.T) {
	svc, _ := testService(t)

	a, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start 42: %v", err)
	}
	b, err := svc.StartRoom(context.Background(), "cust-1", 43)
	if err != nil {
		t.Fatalf("start 43: %v", err)
	}
	if a.RoomID == b.RoomID {
		t.Fatalf("expected distinct rooms for distinct products")
	}
	if b.Title != "ThinkPad X1" {
		t.Fatalf("unexpected title: %q", b.Title)
	}
}

func TestStartRoom_UnknownProduct(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.StartRoom(context.Background(), "cust-1", 999)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStartRoom_UnknownCustomer(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.StartRoom(context.Background(), "nobody", 42)
	if !errors.Is(err, ErrPartyNotFound) {
		t.Fatalf("expected ErrPartyNotFound, got %v", err)
	}
}

func TestAppendMessage_HistoryKeepsSendOrder(t *testing.T) {
	svc, _ := testService(t)

	view, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	if _, err := svc.AppendMessage(context.Background(), view.RoomID, RoleCustomer, "cust-1", "Is this in stock?"); err != nil {
		t.Fatalf("customer append: %v", err)
	}
	if _, err := svc.AppendMessage(context.Background(), view.RoomID, RoleMerchant, "merchant-1", "Yes, ships today."); err != nil {
		t.Fatalf("merchant append: %v", err)
	}

	history, err := svc.History(context.Background(), view.RoomID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if !history[0].ProductCard {
		t.Fatalf("expected history to start with the product card")
	}
	if history[1].Content != "Is this in stock?" || history[1].SenderRole != RoleCustomer {
		t.Fatalf("unexpected second message: %+v", history[1])
	}
	if history[2].Content != "Yes, ships today." || history[2].SenderRole != RoleMerchant {
		t.Fatalf("unexpected third message: %+v", history[2])
	}
	if history[2].SenderName != "Billions Laptops" {
		t.Fatalf("expected merchant display name on message, got %q", history[2].SenderName)
	}
	if !history[1].SentAt.Before(history[2].SentAt) && !history[1].SentAt.Equal(history[2].SentAt) {
		t.Fatalf("history out of order: %v after %v", history[1].SentAt, history[2].SentAt)
	}
}

func TestAppendMessage_RejectsOutsiders(t *testing.T) {
	svc, _ := testService(t)

	view, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	cases := []struct {
		name string
		role string
		id   string
	}{
		{"other customer", RoleCustomer, "cust-2"},
		{"other merchant", RoleMerchant, "merchant-9"},
		{"unknown role", "admin", "cust-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AppendMessage(context.Background(), view.RoomID, tc.role, tc.id, "hi")
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}

	history, err := svc.History(context.Background(), view.RoomID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("rejected sends must not persist, got %d messages", len(history))
	}
}

func TestAppendMessage_EmptyContent(t *testing.T) {
	svc, _ := testService(t)

	view, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := svc.AppendMessage(context.Background(), view.RoomID, RoleCustomer, "cust-1", content); !errors.Is(err, ErrEmptyContent) {
			t.Fatalf("content %q: expected ErrEmptyContent, got %v", content, err)
		}
	}
}

func TestAppendMessage_RoomNotFound(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.AppendMessage(context.Background(), 12345, RoleCustomer, "cust-1", "hello")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestEnsureMember(t *testing.T) {
	svc, _ := testService(t)

	view, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	if err := svc.EnsureMember(context.Background(), view.RoomID, RoleCustomer, "cust-1"); err != nil {
		t.Fatalf("customer member: %v", err)
	}
	if err := svc.EnsureMember(context.Background(), view.RoomID, RoleMerchant, "merchant-1"); err != nil {
		t.Fatalf("merchant member: %v", err)
	}
	if err := svc.EnsureMember(context.Background(), view.RoomID, RoleCustomer, "cust-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.EnsureMember(context.Background(), 999, RoleCustomer, "cust-1"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomsForCustomer_NewestFirst(t *testing.T) {
	svc, db := testService(t)

	first, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start 42: %v", err)
	}
	second, err := svc.StartRoom(context.Background(), "cust-1", 43)
	if err != nil {
		t.Fatalf("start 43: %v", err)
	}

	// push the second room clearly ahead in time
	if err := db.Model(&Room{}).Where("id = ?", second.RoomID).
		Update("created_at", time.Now().Add(time.Hour)).Error; err != nil {
		t.Fatalf("bump created_at: %v", err)
	}

	rooms, err := svc.RoomsForCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].RoomID != second.RoomID || rooms[1].RoomID != first.RoomID {
		t.Fatalf("expected newest-first order, got %d then %d", rooms[0].RoomID, rooms[1].RoomID)
	}
}

func TestRoomsForMerchant_SkipsDanglingProduct(t *testing.T) {
	svc, db := testService(t)

	kept, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start 42: %v", err)
	}
	if _, err := svc.StartRoom(context.Background(), "cust-2", 43); err != nil {
		t.Fatalf("start 43: %v", err)
	}

	// simulate the product disappearing from the catalog after the fact
	cat := svc.catalog.(*fakeCatalog)
	delete(cat.products, 43)

	rooms, err := svc.RoomsForMerchant(context.Background(), "merchant-1")
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected dangling room to be skipped, got %d rooms", len(rooms))
	}
	if rooms[0].RoomID != kept.RoomID {
		t.Fatalf("unexpected surviving room %d", rooms[0].RoomID)
	}

	var total int64
	if err := db.Model(&Room{}).Count(&total).Error; err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if total != 2 {
		t.Fatalf("skipping must not delete rows, got %d", total)
	}
}

func TestProductCardContent_KeepsDescription(t *testing.T) {
	got := productCardContent(ProductSnapshot{
		Name:        "ThinkPad X1",
		PriceText:   "1450.50",
		Description: "14 inch ultrabook",
		ImageURL:    "https://cdn.example.com/x1.jpg",
	})
	if !strings.HasPrefix(got, "PRODUCT_CARD::") {
		t.Fatalf("missing prefix: %q", got)
	}
	want := "PRODUCT_CARD::ThinkPad X1::1450.50::14 inch ultrabook::https://cdn.example.com/x1.jpg"
	if got != want {
		t.Fatalf("unexpected card:\n got %q\nwant %q", got, want)
	}
}
