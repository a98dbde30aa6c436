package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"shelter-adoptions/internal/domain/adoptions"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "shelter:adoptions"
	// recentMax es cuántos resúmenes se guardan en la lista de recientes.
	recentMax = 100
)

// Redis publica el resumen en un canal y lo deja en una lista acotada
// para consumidores que se conectan tarde.
type Redis struct {
	client  redis.UniversalClient
	channel string
}

func NewRedis(client redis.UniversalClient, channel string) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Redis{client: client, channel: channel}
}

func (n *Redis) RecentKey() string {
	return n.channel + ":recent"
}

func (n *Redis) Notify(ctx context.Context, s adoptions.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	pipe := n.client.Pipeline()
	pipe.Publish(ctx, n.channel, data)
	pipe.LPush(ctx, n.RecentKey(), data)
	pipe.LTrim(ctx, n.RecentKey(), 0, recentMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	return nil
}
