package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"handy/internal/models"

	"github.com/redis/go-redis/v9"
)

type redisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepository {
	return &redisCacheRepository{client: client}
}

func walletKey(userID uint) string {
	return fmt.Sprintf("wallet:user:%d", userID)
}

func (r *redisCacheRepository) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	val, err := r.client.Get(ctx, walletKey(userID)).Bytes()
	if err != nil {
		return nil, err
	}
	var wallet models.Wallet
	if err := json.Unmarshal(val, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *redisCacheRepository) SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, walletKey(userID), data, DefaultCacheExpiration).Err()
}

func (r *redisCacheRepository) DeleteWallet(ctx context.Context, userID uint) error {
	return r.client.Del(ctx, walletKey(userID)).Err()
}
