package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PaymentSubmitTotal counts payment submission outcomes.
	PaymentSubmitTotal *prometheus.CounterVec
	// PaymentStatusUpdateTotal counts payment status update outcomes.
	PaymentStatusUpdateTotal *prometheus.CounterVec
	// GatewayOrderTotal counts gateway order creation outcomes.
	GatewayOrderTotal *prometheus.CounterVec
	// GatewayReconcileTotal counts gateway payment lookups during reconciliation.
	GatewayReconcileTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PaymentSubmitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_submit_total",
			Help:      "Count of payment submission outcomes.",
		}, []string{"result"})
		PaymentStatusUpdateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_status_update_total",
			Help:      "Count of payment status update outcomes.",
		}, []string{"result"})
		GatewayOrderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_order_total",
			Help:      "Count of gateway order creation outcomes.",
		}, []string{"result"})
		GatewayReconcileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_reconcile_total",
			Help:      "Count of gateway payment lookups performed during reconciliation.",
		}, []string{"result"})

		mustRegisterCollector(reg, PaymentSubmitTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentSubmitTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentStatusUpdateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentStatusUpdateTotal = v
			}
		})
		mustRegisterCollector(reg, GatewayOrderTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				GatewayOrderTotal = v
			}
		})
		mustRegisterCollector(reg, GatewayReconcileTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				GatewayReconcileTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
