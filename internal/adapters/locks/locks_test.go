package locks_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"shelter-adoptions/internal/adapters/locks"
	"shelter-adoptions/internal/domain/adoptions"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_LockUnlock(t *testing.T) {
	mr, client := newRedis(t)
	l := locks.NewRedis(client, "test:", time.Second)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "rex")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:dog:rex"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:dog:rex"))
}

func TestRedis_ContentionWaitsForContext(t *testing.T) {
	_, client := newRedis(t)
	a := locks.NewRedis(client, "test:", 5*time.Second)
	b := locks.NewRedis(client, "test:", 5*time.Second)
	ctx := context.Background()

	unlock, err := a.Lock(ctx, "rex")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = b.Lock(short, "rex")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Otro perro no compite.
	unlockOther, err := b.Lock(ctx, "luna")
	require.NoError(t, err)
	require.NoError(t, unlockOther(ctx))

	require.NoError(t, unlock(ctx))
	unlock2, err := b.Lock(ctx, "rex")
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestRedis_ExpiredLockIsNotReleasedByOldOwner(t *testing.T) {
	mr, client := newRedis(t)
	l := locks.NewRedis(client, "test:", time.Second)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "rex")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	unlock2, err := l.Lock(ctx, "rex")
	require.NoError(t, err)

	// El primer dueño ya no tiene la clave: no debe borrar la del segundo.
	require.ErrorIs(t, unlock(ctx), locks.ErrLockLost)
	assert.True(t, mr.Exists("test:lock:dog:rex"))
	require.NoError(t, unlock2(ctx))
}

func TestLocal_MutualExclusion(t *testing.T) {
	l := locks.NewLocal()
	exerciseMutualExclusion(t, l)
}

func TestRedis_MutualExclusion(t *testing.T) {
	_, client := newRedis(t)
	exerciseMutualExclusion(t, locks.NewRedis(client, "test:", 5*time.Second))
}

func exerciseMutualExclusion(t *testing.T, l adoptions.DogLocker) {
	t.Helper()
	var inside, maxInside int32

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			unlock, err := l.Lock(ctx, "rex")
			if err != nil {
				return err
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return unlock(ctx)
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
}

func TestLocal_CanceledWhileWaiting(t *testing.T) {
	l := locks.NewLocal()
	unlock, err := l.Lock(context.Background(), "rex")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "rex")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))
	// Liberar dos veces no rompe el semáforo.
	require.NoError(t, unlock(context.Background()))

	unlock, err = l.Lock(context.Background(), "rex")
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}
