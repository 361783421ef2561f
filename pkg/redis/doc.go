// Package redis opens go-redis clients for the session store.
//
//	client, err := redis.Open(ctx, cfg.Get("redis.url", ""), redis.FromConfig(cfg)...)
//	if err != nil {
//		return err
//	}
//	store := session.NewRedisStore(client)
//
// Open accepts redis:// and rediss:// URLs and pings the server, retrying
// with a linearly growing delay. Healthcheck and Shutdown adapt the client to
// readiness checks and shutdown hooks.
package redis
