package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopcore"

var (
	// CheckoutTotal 下单结果计数，result: success / cart_invalid / empty_cart / insufficient_stock / error
	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	OrderCancelTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_cancel_total",
		Help:      "Orders cancelled with stock restitution.",
	})

	OrderTransitionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transition_total",
		Help:      "Accepted order status transitions by target status.",
	}, []string{"to"})

	CartMutationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutation_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})

	CartCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_cache_total",
		Help:      "Cart cache lookups by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(CheckoutTotal, OrderCancelTotal, OrderTransitionTotal, CartMutationTotal, CartCacheTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
