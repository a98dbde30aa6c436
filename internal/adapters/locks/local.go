package locks

import (
	"context"
	"hash/fnv"

	"shelter-adoptions/internal/domain/adoptions"
)

// numShards: perros distintos pueden caer en el mismo shard; solo se serializan entre sí.
const numShards = 128

// Local es un lock por perro dentro del proceso, repartido en shards por hash del ID.
// Cada shard es un semáforo de capacidad 1 para poder esperar respetando el ctx.
type Local struct {
	shards [numShards]chan struct{}
}

func NewLocal() *Local {
	l := &Local{}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

var _ adoptions.DogLocker = (*Local)(nil)

func (l *Local) Lock(ctx context.Context, dogID string) (adoptions.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sem := l.shards[shardOf(dogID)]
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	released := false
	return func(context.Context) error {
		if released {
			return nil
		}
		released = true
		<-sem
		return nil
	}, nil
}

func shardOf(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % numShards
}
