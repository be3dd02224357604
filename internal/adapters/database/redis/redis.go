package redis

import (
	"context"
	"fmt"

	"github.com/Badsnus/tabqr/internal/adapters/database/redis/logos"
	"github.com/Badsnus/tabqr/internal/adapters/database/redis/popups"
	"github.com/Badsnus/tabqr/internal/adapters/database/redis/settings"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Settings *settings.Storage
	Logos    *logos.Storage
	Popups   *popups.Storage

	clients []*redis.Client
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	settingsClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := settingsClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping settings storage: %w", err)
	}

	logosClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := logosClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping logos storage: %w", err)
	}

	popupsClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       2,
	})
	if err := popupsClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping popups storage: %w", err)
	}

	return &Client{
		Settings: settings.NewStorage(settingsClient),
		Logos:    logos.NewStorage(logosClient),
		Popups:   popups.NewStorage(popupsClient),
		clients:  []*redis.Client{settingsClient, logosClient, popupsClient},
	}, nil
}

func (c *Client) Close() error {
	var firstErr error
	for _, client := range c.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
