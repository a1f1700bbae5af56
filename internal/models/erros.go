// models/erros.go
package models

import "errors"

// Erros de domínio. As mensagens são exibidas ao usuário como estão.
var (
	ErrDadosInvalidos           = errors.New("dados inválidos")
	ErrColaboradorNaoEncontrado = errors.New("colaborador não encontrado")
	ErrCPFDuplicado             = errors.New("CPF já cadastrado para outro colaborador")
	ErrLancamentoNaoEncontrado  = errors.New("lançamento não encontrado")
	ErrLancamentoDuplicado      = errors.New("já existe lançamento para este colaborador neste mês")
	ErrLancamentoFinalizado     = errors.New("lançamento finalizado, reabra antes de editar")
	ErrColaboradorInexistente   = errors.New("colaborador do lançamento não encontrado")
)
