package metrics

import (
	"math"
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type MarketplaceMetrics struct {
	sales          prometheus.Counter
	volume         prometheus.Counter
	royalties      *prometheus.CounterVec
	platformFees   prometheus.Counter
	mints          *prometheus.CounterVec
	rewardsMinted  prometheus.Counter
	completedWorks prometheus.Counter
}

var (
	marketplaceOnce     sync.Once
	marketplaceRegistry *MarketplaceMetrics
)

func Marketplace() *MarketplaceMetrics {
	marketplaceOnce.Do(func() {
		marketplaceRegistry = &MarketplaceMetrics{
			sales: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "moviewrite_market_sales_total",
				Help: "Count of settled certificate sales.",
			}),
			volume: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "moviewrite_market_volume",
				Help: "Cumulative sale volume in native base units.",
			}),
			royalties: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "moviewrite_market_royalties",
				Help: "Cumulative royalties in native base units, split by whether they were waived.",
			}, []string{"waived"}),
			platformFees: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "moviewrite_market_platform_fees",
				Help: "Cumulative platform fees in native base units.",
			}),
			mints: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "moviewrite_certificates_minted_total",
				Help: "Count of minted certificates by origin.",
			}, []string{"origin"}),
			rewardsMinted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "moviewrite_contribution_rewards",
				Help: "Cumulative reward tokens minted for approved contributions.",
			}),
			completedWorks: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "moviewrite_articles_completed_total",
				Help: "Count of completed articles.",
			}),
		}
		prometheus.MustRegister(
			marketplaceRegistry.sales,
			marketplaceRegistry.volume,
			marketplaceRegistry.royalties,
			marketplaceRegistry.platformFees,
			marketplaceRegistry.mints,
			marketplaceRegistry.rewardsMinted,
			marketplaceRegistry.completedWorks,
		)
	})
	return marketplaceRegistry
}

func (m *MarketplaceMetrics) ObserveSale(price, platformFee, royalty *big.Int, waived bool) {
	if m == nil {
		return
	}
	m.sales.Inc()
	m.volume.Add(toFloat(price))
	m.platformFees.Add(toFloat(platformFee))
	label := "false"
	if waived {
		label = "true"
	}
	m.royalties.WithLabelValues(label).Add(toFloat(royalty))
}

func (m *MarketplaceMetrics) ObserveMint(origin string, count int) {
	if m == nil {
		return
	}
	if origin == "" {
		origin = "unknown"
	}
	m.mints.WithLabelValues(origin).Add(float64(count))
}

func (m *MarketplaceMetrics) ObserveReward(amount *big.Int) {
	if m == nil {
		return
	}
	m.rewardsMinted.Add(toFloat(amount))
}

func (m *MarketplaceMetrics) ObserveCompletion() {
	if m == nil {
		return
	}
	m.completedWorks.Inc()
}

// toFloat converts non-negative amounts; Counter.Add panics on negatives.
func toFloat(value *big.Int) float64 {
	if value == nil || value.Sign() <= 0 {
		return 0
	}
	f, _ := new(big.Float).SetInt(value).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
