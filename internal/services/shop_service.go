package services

import (
	"context"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
)

// ShopService handles cosmetic purchase business logic
type ShopService interface {
	Purchase(ctx context.Context, uid, itemID string) error
	Items(ctx context.Context) []catalog.ShopItem
	Owned(ctx context.Context, uid string) ([]string, error)
}

type shopService struct {
	db      *db.DB
	catalog *catalog.Catalog
}

// NewShopService creates a new ShopService
func NewShopService(database *db.DB, cat *catalog.Catalog) ShopService {
	return &shopService{db: database, catalog: cat}
}

// Purchase debits the item price and appends it to the owned set in one
// transaction. Funds and non-duplicate ownership are checked against rows
// read in the same transaction.
func (s *shopService) Purchase(ctx context.Context, uid, itemID string) error {
	log := logger.FromContext(ctx)

	if itemID == "" {
		return errors.NewInvalidArgumentError("itemId", "must not be empty")
	}
	item, ok := s.catalog.ShopItems[itemID]
	if !ok {
		return errors.NewNotFoundError("shop item", itemID)
	}

	err := s.db.Tx(ctx, func(q db.Querier) error {
		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		owned, err := db.OwnedCosmetics(ctx, q, uid)
		if err != nil {
			return errors.NewInternalError(err)
		}
		for _, id := range owned {
			if id == itemID {
				return errors.NewFailedPreconditionError("item already owned")
			}
		}

		if user.MoonShards < item.Price {
			return errors.NewFailedPreconditionError("insufficient moon shards")
		}

		if err := db.UpdateUserCurrency(ctx, q, uid, user.Mana, user.MoonShards-item.Price); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.InsertCosmetic(ctx, q, uid, itemID); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("purchased item: uid=%s item=%s price=%d", uid, itemID, item.Price)
	return nil
}

func (s *shopService) Items(ctx context.Context) []catalog.ShopItem {
	items := make([]catalog.ShopItem, 0, len(s.catalog.ShopItems))
	for _, it := range s.catalog.ShopItems {
		items = append(items, it)
	}
	return items
}

func (s *shopService) Owned(ctx context.Context, uid string) ([]string, error) {
	owned, err := db.OwnedCosmetics(ctx, s.db, uid)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return owned, nil
}
