// Package repository maps domain models to documents and implements the
// storage interfaces on top of any docstore.Store.
package repository

import (
	"errors"

	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Collection names.
const (
	collAccounts     = "accounts"
	collFarms        = "farms"
	collCrops        = "crops"
	collDiseases     = "diseases"
	collMarketPrices = "market_prices"
	collWeather      = "weather_data"
)

// Indexes declares the unique fields the backends must enforce.
var Indexes = docstore.Indexes{
	collAccounts: {"email"},
}

// Repositories bundles one repository per aggregate over a shared store.
type Repositories struct {
	Accounts *Accounts
	Farms    *Farms
	Crops    *Crops
	Market   *Market
	Weather  *Weather
}

// New builds all repositories over store.
func New(store docstore.Store) *Repositories {
	return &Repositories{
		Accounts: &Accounts{store: store},
		Farms:    &Farms{store: store},
		Crops:    &Crops{store: store},
		Market:   &Market{store: store},
		Weather:  &Weather{store: store},
	}
}

// parseID converts an external id, treating malformed ids as missing records.
func parseID(id string) (docstore.Key, error) {
	key, err := docstore.ParseKey(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return key, nil
}

// notFound maps docstore.ErrNotFound to storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return storage.ErrNotFound
	}
	return err
}

