package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

// RedisFeed is a [ChangeFeed] shared by every server replica through a Redis
// pub/sub channel. Published paths come back through the subscription, also
// on the publishing replica, and are then fanned out locally.
type RedisFeed struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	channel string
	local   *LocalFeed
	logger  *logger.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRedisFeed connects to Redis and starts forwarding channel messages.
func NewRedisFeed(ctx context.Context, cfg config.Feed, log *logger.Logger) (*RedisFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Err(err).Str("func", "NewRedisFeed").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}

	pubsub := client.Subscribe(ctx, cfg.Channel)
	// wait for the subscription confirmation so no early publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		client.Close()
		return nil, fmt.Errorf("error subscribing to %q: %w", cfg.Channel, err)
	}

	f := &RedisFeed{
		client:  client,
		pubsub:  pubsub,
		channel: cfg.Channel,
		local:   NewLocalFeed(),
		logger:  log,
	}

	f.wg.Add(1)
	go f.forward()

	log.Info().Str("func", "NewRedisFeed").Str("channel", cfg.Channel).Msg("change feed connected")
	return f, nil
}

func (f *RedisFeed) forward() {
	defer f.wg.Done()
	for msg := range f.pubsub.Channel() {
		f.local.broadcast(msg.Payload)
	}
}

// Publish sends path to every replica.
func (f *RedisFeed) Publish(ctx context.Context, path string) error {
	if err := f.client.Publish(ctx, f.channel, path).Err(); err != nil {
		return fmt.Errorf("error publishing change: %w", err)
	}
	return nil
}

// Subscribe registers fn for paths received from the channel.
func (f *RedisFeed) Subscribe(fn func(path string)) func() {
	return f.local.Subscribe(fn)
}

// Close stops forwarding and releases the connection.
func (f *RedisFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		err = f.pubsub.Close()
		f.wg.Wait()
		if cerr := f.client.Close(); err == nil {
			err = cerr
		}
		f.local.Close()
	})
	return err
}
