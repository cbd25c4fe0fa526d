package common

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var RedisEnabled = false

// InitRedisClient connects to Redis when REDIS_CONN_STRING is set. Without
// it the process falls back to the ORM's in-process cache, which is fine for
// a single instance but loses cross-instance token revocation.
func InitRedisClient() (err error) {
	if os.Getenv("REDIS_CONN_STRING") == "" {
		SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	RedisEnabled = true
	SysLog("Redis is enabled")
	opt, err := redis.ParseURL(os.Getenv("REDIS_CONN_STRING"))
	if err != nil {
		FatalLog("failed to parse Redis connection string: " + err.Error())
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = RDB.Ping(ctx).Result()
	return err
}
