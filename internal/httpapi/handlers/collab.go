package handlers

import (
	"context"
	"errors"

	"github.com/Cyril-dot/billionBackend/internal/catalog"
	"github.com/Cyril-dot/billionBackend/internal/chat"
	"github.com/Cyril-dot/billionBackend/internal/identity"
)

// catalogLookup adapts the catalog service to the narrow read the chat core
// depends on, translating catalog errors into the chat taxonomy.
type catalogLookup struct {
	svc *catalog.Service
}

var _ chat.CatalogLookup = catalogLookup{}

func (l catalogLookup) ProductSnapshot(ctx context.Context, productID uint64) (chat.ProductSnapshot, error) {
	s, err := l.svc.Snapshot(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return chat.ProductSnapshot{}, chat.ErrProductNotFound
		}
		return chat.ProductSnapshot{}, err
	}
	return chat.ProductSnapshot{
		ID:          s.ID,
		Name:        s.Name,
		PriceText:   s.PriceText,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		MerchantID:  s.MerchantID,
	}, nil
}

// partyDirectory adapts the identity service to the chat core's directory.
type partyDirectory struct {
	svc *identity.Service
}

var _ chat.Directory = partyDirectory{}

func (d partyDirectory) Customer(ctx context.Context, id string) (chat.Party, error) {
	c, err := d.svc.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return chat.Party{}, chat.ErrPartyNotFound
		}
		return chat.Party{}, err
	}
	return chat.Party{ID: c.ID, Name: c.DisplayName(), Email: c.Email}, nil
}

func (d partyDirectory) Merchant(ctx context.Context, id string) (chat.Party, error) {
	m, err := d.svc.GetMerchant(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return chat.Party{}, chat.ErrPartyNotFound
		}
		return chat.Party{}, err
	}
	return chat.Party{ID: m.ID, Name: m.Name, Email: m.Email}, nil
}
