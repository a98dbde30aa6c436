package sqldb

import (
	"strconv"
	"strings"
)

// Dialect reúne lo poco que cambia entre Postgres y SQLite.
type Dialect struct {
	Name string
	// Numbered: placeholders $1, $2... en vez de ?.
	Numbered bool
	// LockClause se agrega al SELECT del perro dentro de LockDog ("FOR UPDATE").
	// Vacío si el motor ya serializa la transacción completa.
	LockClause string
	// IsApprovedConflict reconoce la violación del índice único de solicitudes aprobadas.
	IsApprovedConflict func(err error) bool
}

// rebind traduce ? a $n cuando el dialecto lo necesita.
func (d Dialect) rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
