package analytics

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/argentis/internal/models"
)

// Recommendation scores one ticker from its P/E and earnings growth.
type Recommendation struct {
	Symbol string   `json:"symbol"`
	PE     *float64 `json:"pe"`
	Growth *float64 `json:"growth"`
	Score  int      `json:"score"`
}

// Sort keys for recommendations.
const (
	SortScore  = "Score"
	SortPE     = "P/E"
	SortGrowth = "Croissance"
)

// SortKeys lists the accepted sort keys in display order.
var SortKeys = []string{SortScore, SortPE, SortGrowth}

// ScoreTicker returns 5 for P/E under 20 with positive growth, 1 for P/E over 30,
// 3 otherwise and 0 when either figure is missing.
func ScoreTicker(pe, growth *float64) int {
	if pe == nil || growth == nil {
		return 0
	}
	switch {
	case *pe < 20 && *growth > 0:
		return 5
	case *pe > 30:
		return 1
	default:
		return 3
	}
}

// Recommend builds a recommendation from ticker info.
func Recommend(symbol string, info *models.Info) Recommendation {
	r := Recommendation{Symbol: symbol}
	if info != nil {
		r.PE = info.TrailingPE
		r.Growth = info.EarningsGrowth
	}
	r.Score = ScoreTicker(r.PE, r.Growth)
	return r
}

// ParseSortKey validates a sort key. Empty selects Score.
func ParseSortKey(key string) (string, error) {
	if key == "" {
		return SortScore, nil
	}
	for _, k := range SortKeys {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", key)
}

// SortRecommendations orders recs descending by key. Missing values sort last
// and ties keep their input order.
func SortRecommendations(recs []Recommendation, key string) {
	value := func(r Recommendation) (float64, bool) {
		switch key {
		case SortPE:
			if r.PE == nil {
				return 0, false
			}
			return *r.PE, true
		case SortGrowth:
			if r.Growth == nil {
				return 0, false
			}
			return *r.Growth, true
		default:
			return float64(r.Score), true
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		vi, oki := value(recs[i])
		vj, okj := value(recs[j])
		if oki != okj {
			return oki
		}
		return vi > vj
	})
}
