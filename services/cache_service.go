package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"opsdesk_server/config"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			// Connection pool settings
			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			// Timeouts
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			// Retry settings
			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		maxBackoff := 2000 // max 2000ms = 2s
		base := 100        // 100ms base

		backoff := base * (1 << attempt)
		backoff = min(backoff, maxBackoff)

		// add jitter so parallel callers don't thunder in lockstep
		jitterBytes := make([]byte, 4)
		if _, err := rand.Read(jitterBytes); err != nil {
			time.Sleep(time.Duration(backoff) * time.Millisecond)
			continue
		}
		jitter := int(uint32(jitterBytes[0])<<24 | uint32(jitterBytes[1])<<16 | uint32(jitterBytes[2])<<8 | uint32(jitterBytes[3]))
		jitter = jitter % (backoff/2 + 1)

		time.Sleep(time.Duration(backoff/2+jitter) * time.Millisecond)
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil {
		return false
	}

	// Key not found is a valid result, never retried
	if err == redis.Nil {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key with automatic retry logic.
// Returns "" without error when the key does not exist.
func (cs *CacheService) Get(key string) (string, error) {
	var result string

	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if err == redis.Nil {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	if err != nil {
		return "", err
	}

	return result, nil
}

// Delete removes a key with automatic retry logic
func (cs *CacheService) Delete(key string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, key).Err()
	}, 3)
}

// Exists checks if a key exists with automatic retry logic
func (cs *CacheService) Exists(key string) (bool, error) {
	var result bool

	err := cs.withRetry(func() error {
		count, err := cs.client.Exists(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = count > 0
		return nil
	}, 3)

	return result, err
}

// BlacklistToken adds a token's jti to the blacklist until the token expires
func (cs *CacheService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	ttl := cs.entityTTL()
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}

	key := fmt.Sprintf("blacklist:%s", jti)
	return cs.Set(key, "true", ttl)
}

// IsTokenBlacklisted checks if a JTI exists in Redis with retry logic
func (cs *CacheService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", jti.String())
	val, err := cs.Get(key)
	if err != nil {
		return false, err
	}

	return val == "true", nil
}

// GetUserFromCache retrieves a user object from cache using userID
func (cs *CacheService) GetUserFromCache(userID uuid.UUID) (*tables.User, error) {
	key := fmt.Sprintf("user:%s", userID.String())
	return getJSON[tables.User](cs, key)
}

// SetUserInCache stores a user object in cache with TTL
func (cs *CacheService) SetUserInCache(user *tables.User) error {
	if user == nil {
		return nil
	}
	key := fmt.Sprintf("user:%s", user.Id.String())
	return setJSON(cs, key, user, cs.entityTTL())
}

// InvalidateUserCache removes a user from cache
func (cs *CacheService) InvalidateUserCache(userID uuid.UUID) error {
	key := fmt.Sprintf("user:%s", userID.String())
	return cs.Delete(key)
}

// GetProductFromCache retrieves a cached product by ID
func (cs *CacheService) GetProductFromCache(id uuid.UUID) (*tables.Product, error) {
	key := fmt.Sprintf("product:id:%s", id.String())

	product, err := getJSON[tables.Product](cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}

	return product, nil
}

// SetProductInCache caches a product by ID
func (cs *CacheService) SetProductInCache(product *tables.Product) error {
	if product == nil {
		return nil
	}
	key := fmt.Sprintf("product:id:%s", product.Id.String())
	return setJSON(cs, key, product, cs.entityTTL())
}

// InvalidateProductCache removes a product and any derived lists from cache.
// Called on every product create, update, and delete.
func (cs *CacheService) InvalidateProductCache(productID uuid.UUID) error {
	key := fmt.Sprintf("product:id:%s", productID.String())
	if err := cs.Delete(key); err != nil {
		cs.logger.Warn("Failed to delete product cache", gecho.Field("product_id", productID), gecho.Field("error", err))
		return err
	}

	return cs.DeletePattern("products:list:*")
}

// GetCustomerFromCache retrieves a cached customer by ID
func (cs *CacheService) GetCustomerFromCache(id uuid.UUID) (*tables.Customer, error) {
	key := fmt.Sprintf("customer:id:%s", id.String())

	customer, err := getJSON[tables.Customer](cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get customer from cache", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}

	return customer, nil
}

// SetCustomerInCache caches a customer by ID
func (cs *CacheService) SetCustomerInCache(customer *tables.Customer) error {
	if customer == nil {
		return nil
	}
	key := fmt.Sprintf("customer:id:%s", customer.Id.String())
	return setJSON(cs, key, customer, cs.entityTTL())
}

// InvalidateCustomerCache removes a customer from cache
func (cs *CacheService) InvalidateCustomerCache(customerID uuid.UUID) error {
	key := fmt.Sprintf("customer:id:%s", customerID.String())
	return cs.Delete(key)
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(redisCtx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// GetRateLimit retrieves the current rate limit count for an IP/endpoint
func (cs *CacheService) GetRateLimit(ip, endpoint string) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
	val, err := cs.Get(key)
	if err != nil {
		return 0, err
	}

	if val == "" {
		return 0, nil
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limit value: %w", err)
	}

	return count, nil
}

// Ping tests the Redis connection
func (cs *CacheService) Ping() error {
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	}, 3)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(pattern string) error {
	return cs.withRetry(func() error {
		var cursor uint64

		for {
			keys, nextCursor, err := cs.client.Scan(redisCtx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(redisCtx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 3)
}

func (cs *CacheService) entityTTL() time.Duration {
	if cs.config.Cache.EntityTTL > 0 {
		return cs.config.Cache.EntityTTL
	}
	return 5 * time.Minute // fallback default
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not in cache
	}

	var result T
	err = json.Unmarshal([]byte(val), &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
