package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const actorKey ctxKey = "actor"

// ActorHeader identifica al miembro del staff que opera. No hay login: el
// header lo pone el panel de administración.
const ActorHeader = "X-Actor-ID"

// ActorContext copia el header X-Actor-ID al contexto. Sin header el request
// sigue igual; los handlers deciden qué actor registrar.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ActorHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorID(ctx context.Context) string {
	id, _ := ctx.Value(actorKey).(string)
	return id
}
