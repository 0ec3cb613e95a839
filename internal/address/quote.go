package address

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db/models"
)

const (
	// QuoteSourceProvider marks a freshly computed quote.
	QuoteSourceProvider = "provider"
	// QuoteSourceCache marks a quote served from the redis cache.
	QuoteSourceCache = "cache"
)

// Quote is the delivery answer for one (merchant, address) pair.
type Quote struct {
	Serviceable           bool    `json:"serviceable"`
	DistanceKm            float64 `json:"distance_km"`
	FeeCents              int     `json:"fee_cents"`
	StrikethroughFeeCents int     `json:"strikethrough_fee_cents"`
	Source                string  `json:"-"`
}

type quoteCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	QuoteKey(merchantID, addressID string) string
}

// Quoter computes delivery quotes with a short-TTL cache in front. The fee
// is a slab: a base fee covers the first BaseDistanceKm, each km beyond adds
// PerKmFeeCents. The strike-through value is the fee inflated by the display
// factor, shown crossed out next to the real fee.
type Quoter struct {
	cfg   config.DeliveryConfig
	cache quoteCache
}

// NewQuoter builds the delivery quote service. The cache may be nil; quotes
// are then always computed.
func NewQuoter(cfg config.DeliveryConfig, cache quoteCache) *Quoter {
	return &Quoter{cfg: cfg, cache: cache}
}

// Quote resolves serviceability, distance and fee for the pair. Cached
// results carry QuoteSourceCache.
func (q *Quoter) Quote(ctx context.Context, merchant *models.Merchant, addr *models.Address) (*Quote, error) {
	if merchant == nil || addr == nil {
		return nil, fmt.Errorf("merchant and address are required")
	}

	if q.cache != nil {
		key := q.cache.QuoteKey(merchant.ID.String(), addr.ID.String())
		if raw, err := q.cache.Get(ctx, key); err == nil {
			var cached Quote
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				cached.Source = QuoteSourceCache
				return &cached, nil
			}
		} else if err != goredis.Nil {
			return nil, fmt.Errorf("quote cache read: %w", err)
		}
	}

	quote := q.compute(merchant, addr)

	if q.cache != nil {
		key := q.cache.QuoteKey(merchant.ID.String(), addr.ID.String())
		if payload, err := json.Marshal(quote); err == nil {
			// best effort; a failed cache write never fails the quote
			_ = q.cache.Set(ctx, key, string(payload), q.cfg.QuoteCacheTTL)
		}
	}

	return quote, nil
}

func (q *Quoter) compute(merchant *models.Merchant, addr *models.Address) *Quote {
	distance := HaversineKm(merchant.Lat, merchant.Lng, addr.Lat, addr.Lng)

	radius := merchant.ServiceRadiusKm
	if radius <= 0 {
		radius = q.cfg.DefaultRadiusKm
	}

	quote := &Quote{
		DistanceKm: roundKm(distance),
		Source:     QuoteSourceProvider,
	}
	if distance > radius {
		return quote
	}

	quote.Serviceable = true
	quote.FeeCents = q.slabFee(distance)
	quote.StrikethroughFeeCents = int(decimal.NewFromInt(int64(quote.FeeCents)).
		Mul(decimal.NewFromFloat(q.cfg.StrikethroughFactor)).
		Round(0).IntPart())
	return quote
}

func (q *Quoter) slabFee(distanceKm float64) int {
	fee := q.cfg.BaseFeeCents
	if distanceKm > q.cfg.BaseDistanceKm {
		extra := math.Ceil(distanceKm - q.cfg.BaseDistanceKm)
		fee += int(extra) * q.cfg.PerKmFeeCents
	}
	return fee
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func roundKm(v float64) float64 {
	return math.Round(v*100) / 100
}
