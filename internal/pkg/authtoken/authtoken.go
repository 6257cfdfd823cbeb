package authtoken

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/storage/redis"
	"github.com/google/uuid"

	"github.com/roll2bowl/partner-api/internal/pkg/cache"
	"github.com/roll2bowl/partner-api/internal/pkg/env"
)

// Expiration is how long a bearer token stays valid without re-login.
const Expiration = 30 * 24 * time.Hour

var store *redis.Storage

// Setup creates the Redis-backed token store. It reuses the cache
// connection settings but keeps tokens in database 1 so a cache flush
// does not log everyone out.
func Setup() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		addr := client.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	store = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}

// Issue creates an opaque bearer token bound to the user id.
func Issue(userID uint) (string, error) {
	if store == nil {
		return "", fmt.Errorf("token store not initialized")
	}
	token := uuid.NewString()
	err := store.Set(token, []byte(strconv.FormatUint(uint64(userID), 10)), Expiration)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id a token is bound to, or false for unknown
// or expired tokens.
func Resolve(token string) (uint, bool) {
	if store == nil || token == "" {
		return 0, false
	}
	raw, err := store.Get(token)
	if err != nil || len(raw) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Revoke invalidates a token, used on logout.
func Revoke(token string) error {
	if store == nil || token == "" {
		return nil
	}
	return store.Delete(token)
}
