package storage

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedis builds the redis client used for single-use auth challenge nonces.
func NewRedis(addr string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
}

// NonceStore holds login challenge nonces. A nonce is bound to the wallet it
// was issued for, lives for a short TTL, and is deleted on first use.
type NonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNonceStore(client *redis.Client, ttl time.Duration) *NonceStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &NonceStore{client: client, ttl: ttl}
}

func nonceKey(nonce string) string {
	return "auth:nonce:" + nonce
}

// Put stores a nonce for the given wallet address.
func (n *NonceStore) Put(ctx context.Context, nonce, walletAddress string) error {
	return n.client.Set(ctx, nonceKey(nonce), walletAddress, n.ttl).Err()
}

// Consume deletes the nonce and reports whether it existed and was bound to
// the given wallet. A second call with the same nonce always fails.
func (n *NonceStore) Consume(ctx context.Context, nonce, walletAddress string) (bool, error) {
	key := nonceKey(nonce)
	stored, err := n.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n.client.Del(ctx, key)
	return stored == walletAddress, nil
}
