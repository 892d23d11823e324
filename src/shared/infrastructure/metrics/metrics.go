package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Colectores del motor de ventas. Se exponen vía /metrics cuando
// PROMETHEUS_ENABLED=true (ver main.go).
var (
	SalesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_committed_total",
		Help: "Ventas confirmadas online contra el almacén remoto",
	})

	SalesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_queued_total",
		Help: "Ventas diferidas a la cola local durable",
	})

	SalesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_rejected_total",
		Help: "Ventas rechazadas en la validación, antes de cualquier escritura",
	})

	SalesSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_synced_total",
		Help: "Ventas drenadas de la cola local y confirmadas remotas",
	})

	SalesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdv_sales_cancelled_total",
		Help: "Ventas canceladas vía compensación",
	})

	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdv_side_effect_failures_total",
		Help: "Fallas no fatales por paso del fan-out de efectos (caja, crédito, puntos, stock, fiscal)",
	}, []string{"step"})

	PendingSales = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdv_pending_sales",
		Help: "Entradas pendientes en la cola local durable",
	})
)
