package repositories

import (
	"context"
	"time"

	"handy/internal/models"
)

// Default cache expiration time for wallet snapshots.
const DefaultCacheExpiration = 5 * time.Minute

// CacheRepository is the read-through cache used by the wallet service.
// Cached wallets are snapshots for balance queries only; every mutation
// path invalidates before returning.
type CacheRepository interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, userID uint) error
}
