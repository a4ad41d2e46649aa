package chat

import "context"

// ProductSnapshot is the catalog view a conversation is opened against.
// PriceText is pre-formatted with two decimals.
type ProductSnapshot struct {
	ID          uint64
	Name        string
	PriceText   string
	Description string
	ImageURL    string
	MerchantID  string
}

// CatalogLookup resolves a product to its snapshot. Implementations return
// ErrProductNotFound when the id does not resolve.
type CatalogLookup interface {
	ProductSnapshot(ctx context.Context, productID uint64) (ProductSnapshot, error)
}

// Party is the display identity of one side of a conversation.
type Party struct {
	ID    string
	Name  string
	Email string
}

// Directory resolves customer and merchant ids to display identities.
// Implementations return ErrPartyNotFound when an id does not resolve.
type Directory interface {
	Customer(ctx context.Context, id string) (Party, error)
	Merchant(ctx context.Context, id string) (Party, error)
}
