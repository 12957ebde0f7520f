package redis

import (
	"context"
	"net"
	"stayops/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dialTimeout = 5 * time.Second

// New connects to the primary. Reads and writes are bounded by the cache budget so a slow redis
// degrades into cache misses instead of stalling requests.
func New(config *config.Config) *goRedis.Client {
	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(options(config))

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("host", primary.Host).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Msg("Connected to Redis")

	return client
}

func options(config *config.Config) *goRedis.Options {
	primary := config.Cache.Redis.Primary

	opts := &goRedis.Options{
		Addr:        net.JoinHostPort(primary.Host, primary.Port),
		Password:    primary.Password,
		DB:          primary.DB,
		DialTimeout: dialTimeout,
	}

	if budget := config.App.Upstream.CacheMs; budget > 0 {
		opts.ReadTimeout = time.Duration(budget) * time.Millisecond
		opts.WriteTimeout = opts.ReadTimeout
	}

	return opts
}
