// Package metricas registra as métricas Prometheus do serviço.
package metricas

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LeiturasRecuperadas conta leituras do armazenamento que caíram no grafo
// vazio por arquivo corrompido ou ilegível.
var LeiturasRecuperadas = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dp",
	Subsystem: "armazenamento",
	Name:      "leituras_recuperadas_total",
	Help:      "Leituras do armazenamento substituídas por um grafo vazio.",
}, []string{"motivo"})

// Falhas conta operações do armazenamento que retornaram erro.
var Falhas = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dp",
	Subsystem: "armazenamento",
	Name:      "falhas_total",
	Help:      "Operações do armazenamento que retornaram erro.",
}, []string{"operacao"})

// Requisicoes conta requisições HTTP por rota e status.
var Requisicoes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dp",
	Subsystem: "http",
	Name:      "requisicoes_total",
	Help:      "Requisições HTTP atendidas.",
}, []string{"metodo", "rota", "status"})

// DuracaoRequisicao mede a latência por rota.
var DuracaoRequisicao = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "dp",
	Subsystem: "http",
	Name:      "duracao_requisicao_segundos",
	Help:      "Latência das requisições HTTP.",
	Buckets:   prometheus.DefBuckets,
}, []string{"metodo", "rota"})

// Notificacoes conta eventos enviados por canal e resultado.
var Notificacoes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dp",
	Subsystem: "notificacao",
	Name:      "eventos_total",
	Help:      "Eventos de notificação enviados.",
}, []string{"canal", "resultado"})
