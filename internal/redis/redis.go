package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
	pingTimeout  = 2 * time.Second
)

// Client is the process-wide connection to the credential store. It is
// opened once at startup and shared by every request.
type Client struct {
	*goredis.Client
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// New connects and verifies the connection with a PING so that a bad
// address or password fails startup instead of the first login.
func New(ctx context.Context, opts Options) (*Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s failed: %w", opts.Addr, err)
	}

	return &Client{Client: client}, nil
}
