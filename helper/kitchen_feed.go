package helper

import (
	"campus_eats/model"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const KitchenChannel = "kitchen:tasks"

// KitchenFeed fans kitchen task changes out over Redis pub/sub so every API
// instance can push them to its websocket clients.
type KitchenFeed struct {
	client *redis.Client
}

func NewKitchenFeed(addr string) *KitchenFeed {
	return &KitchenFeed{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (f *KitchenFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

func (f *KitchenFeed) Publish(ctx context.Context, event model.KitchenEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, KitchenChannel, payload).Err()
}

func (f *KitchenFeed) Subscribe(ctx context.Context) *redis.PubSub {
	return f.client.Subscribe(ctx, KitchenChannel)
}

func (f *KitchenFeed) Close() error {
	return f.client.Close()
}
