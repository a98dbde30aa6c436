package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelter-adoptions/internal/domain/adoptions"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 10 * time.Second
	DefaultKeyPrefix = "shelter:"
	retryInterval    = 50 * time.Millisecond
)

// ErrLockLost: al liberar, la clave ya no era nuestra (expiró el TTL).
var ErrLockLost = errors.New("dog lock expired before release")

// Borra la clave solo si todavía tiene nuestro token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Redis es un lock por perro compartido entre instancias (SET NX PX).
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

var _ adoptions.DogLocker = (*Redis)(nil)

func (l *Redis) key(dogID string) string {
	return l.prefix + "lock:dog:" + dogID
}

// Lock reintenta hasta obtener la clave o hasta que venza el ctx.
func (l *Redis) Lock(ctx context.Context, dogID string) (adoptions.UnlockFunc, error) {
	key := l.key(dogID)
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				n, err := unlockScript.Run(ctx, l.client, []string{key}, token).Int()
				if err != nil {
					return fmt.Errorf("redis unlock %s: %w", key, err)
				}
				if n == 0 {
					return ErrLockLost
				}
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
