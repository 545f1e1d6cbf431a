package keeper

import (
	"math/big"
	"sync"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// AMMMetrics holds all Prometheus metrics for the amm module
type AMMMetrics struct {
	// Swap metrics
	SwapsTotal *prometheus.CounterVec

	// Liquidity metrics
	LiquidityEvents    *prometheus.CounterVec
	PoolReserves       *prometheus.GaugeVec
	ProtocolFeesMinted prometheus.Counter

	// Factory metrics
	PairsCreated prometheus.Counter

	// Security metrics
	ReentrancyBlocked *prometheus.CounterVec

	// TWAP metrics
	TWAPUpdates prometheus.Counter
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *AMMMetrics
)

// NewAMMMetrics creates and registers amm metrics (singleton pattern)
func NewAMMMetrics() *AMMMetrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &AMMMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps by outcome",
				},
				[]string{"status"},
			),
			LiquidityEvents: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "liquidity_events_total",
					Help:      "Mints and burns of LP shares by outcome",
				},
				[]string{"kind", "status"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "pool_reserves",
					Help:      "Recorded pair reserves",
				},
				[]string{"pair", "side"},
			),
			ProtocolFeesMinted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "protocol_fees_minted_total",
					Help:      "Number of protocol fee mints",
				},
			),
			PairsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "pairs_created_total",
					Help:      "Total number of pairs created by the factory",
				},
			),
			ReentrancyBlocked: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "reentrancy_blocked_total",
					Help:      "Pair entry points rejected because the pair was locked",
				},
				[]string{"operation"},
			),
			TWAPUpdates: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "amm",
					Name:      "twap_updates_total",
					Help:      "Number of price accumulator advances",
				},
			),
		}
	})
	return ammMetrics
}

// recordReserves publishes the reserves of p. Values above float64 precision
// are approximate.
func (m *AMMMetrics) recordReserves(p types.Pair) {
	m.PoolReserves.WithLabelValues(p.Address.Hex(), "0").Set(toFloat(p.Reserve0))
	m.PoolReserves.WithLabelValues(p.Address.Hex(), "1").Set(toFloat(p.Reserve1))
}

func toFloat(x *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(x.ToBig()).Float64()
	return f
}
