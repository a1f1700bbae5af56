package utils

import (
	"time"

	"github.com/google/uuid"
)

// NovoID gera um identificador UUIDv7: prefixo de tempo em milissegundos
// seguido de bits aleatórios. A ordem lexicográfica acompanha a de criação.
func NovoID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 só falha se o gerador aleatório do sistema falhar.
		return uuid.NewString()
	}
	return id.String()
}

// Agora é o relógio padrão dos serviços. A precisão de microssegundos é a
// que o Postgres guarda, então o valor lido de volta é igual ao gravado.
func Agora() time.Time {
	return time.Now().Truncate(time.Microsecond)
}
