package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductSales aggregates completed sales of one product over a period
type ProductSales struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	Profit      decimal.Decimal `json:"profit"`
	SalesCount  int64           `json:"salesCount"`
}

// RankingOrder selects the ranking metric
type RankingOrder string

const (
	RankByRevenue  RankingOrder = "revenue"
	RankByQuantity RankingOrder = "quantity"
	RankByProfit   RankingOrder = "profit"
)

// IsValid reports whether o is a known metric
func (o RankingOrder) IsValid() bool {
	return o == RankByRevenue || o == RankByQuantity || o == RankByProfit
}

// RankedProduct is a ranking row
type RankedProduct struct {
	Rank int `json:"rank"`
	ProductSales
}

// RankProducts sorts by the metric (desc, name as tiebreaker) and keeps the top limit rows
func RankProducts(rows []ProductSales, order RankingOrder, limit int) []RankedProduct {
	sorted := make([]ProductSales, len(rows))
	copy(sorted, rows)
	metric := func(p ProductSales) decimal.Decimal {
		switch order {
		case RankByQuantity:
			return p.Quantity
		case RankByProfit:
			return p.Profit
		default:
			return p.Revenue
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, mj := metric(sorted[i]), metric(sorted[j])
		if !mi.Equal(mj) {
			return mi.GreaterThan(mj)
		}
		return sorted[i].ProductName < sorted[j].ProductName
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]RankedProduct, len(sorted))
	for i, p := range sorted {
		out[i] = RankedProduct{Rank: i + 1, ProductSales: p}
	}
	return out
}

// ABCClass is a tier of the ABC curve
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ABCItem is one product on the ABC curve
type ABCItem struct {
	ProductSales
	Share           decimal.Decimal `json:"share"`
	CumulativeShare decimal.Decimal `json:"cumulativeShare"`
	Class           ABCClass        `json:"class"`
}

// ABCClassSummary totals a class
type ABCClassSummary struct {
	Class        ABCClass        `json:"class"`
	ProductCount int             `json:"productCount"`
	Revenue      decimal.Decimal `json:"revenue"`
	Share        decimal.Decimal `json:"share"`
}

// ABCCurve is the classified product list plus per-class totals
type ABCCurve struct {
	TotalRevenue decimal.Decimal   `json:"totalRevenue"`
	ThresholdA   decimal.Decimal   `json:"thresholdA"`
	ThresholdB   decimal.Decimal   `json:"thresholdB"`
	Items        []ABCItem         `json:"items"`
	Summary      []ABCClassSummary `json:"summary"`
}

// ClassifyABC orders products by revenue and assigns classes by cumulative
// revenue share. A product belongs to A while the share accumulated before it
// is below thresholdA, to B while below thresholdB, otherwise to C. Products
// without revenue are always C.
func ClassifyABC(rows []ProductSales, thresholdA, thresholdB decimal.Decimal) ABCCurve {
	ranked := RankProducts(rows, RankByRevenue, 0)

	total := decimal.Zero
	for _, r := range ranked {
		total = total.Add(r.Revenue)
	}

	curve := ABCCurve{
		TotalRevenue: total,
		ThresholdA:   thresholdA,
		ThresholdB:   thresholdB,
		Items:        make([]ABCItem, 0, len(ranked)),
	}
	summary := map[ABCClass]*ABCClassSummary{
		ClassA: {Class: ClassA, Revenue: decimal.Zero, Share: decimal.Zero},
		ClassB: {Class: ClassB, Revenue: decimal.Zero, Share: decimal.Zero},
		ClassC: {Class: ClassC, Revenue: decimal.Zero, Share: decimal.Zero},
	}

	cumulative := decimal.Zero
	for _, r := range ranked {
		share := decimal.Zero
		if total.IsPositive() {
			share = r.Revenue.Div(total).Mul(hundred)
		}
		class := ClassC
		switch {
		case !r.Revenue.IsPositive():
			class = ClassC
		case cumulative.LessThan(thresholdA):
			class = ClassA
		case cumulative.LessThan(thresholdB):
			class = ClassB
		}
		cumulative = cumulative.Add(share)

		curve.Items = append(curve.Items, ABCItem{
			ProductSales:    r.ProductSales,
			Share:           share.Round(2),
			CumulativeShare: cumulative.Round(2),
			Class:           class,
		})
		s := summary[class]
		s.ProductCount++
		s.Revenue = s.Revenue.Add(r.Revenue)
		s.Share = s.Share.Add(share)
	}

	for _, c := range []ABCClass{ClassA, ClassB, ClassC} {
		s := summary[c]
		s.Share = s.Share.Round(2)
		curve.Summary = append(curve.Summary, *s)
	}
	return curve
}

// SaleLine is one product line of a completed sale, used for time series
type SaleLine struct {
	SaleID    uuid.UUID
	ProductID uuid.UUID
	SoldAt    time.Time
	Quantity  decimal.Decimal
	Revenue   decimal.Decimal
}

// TimeSeriesPoint is one bucket of a sales time series
type TimeSeriesPoint struct {
	BucketStart time.Time       `json:"bucketStart"`
	Revenue     decimal.Decimal `json:"revenue"`
	Quantity    decimal.Decimal `json:"quantity"`
	SalesCount  int             `json:"salesCount"`
}

// BuildTimeSeries buckets sale lines by granularity, zero-filling empty buckets.
// SalesCount counts distinct sales per bucket.
func BuildTimeSeries(p Period, g Granularity, lines []SaleLine) []TimeSeriesPoint {
	buckets := g.Buckets(p)
	points := make([]TimeSeriesPoint, len(buckets))
	index := make(map[time.Time]int, len(buckets))
	sales := make([]map[uuid.UUID]struct{}, len(buckets))
	for i, b := range buckets {
		points[i] = TimeSeriesPoint{BucketStart: b, Revenue: decimal.Zero, Quantity: decimal.Zero}
		index[b] = i
		sales[i] = make(map[uuid.UUID]struct{})
	}
	for _, l := range lines {
		if !p.Contains(l.SoldAt) {
			continue
		}
		i, ok := index[g.Truncate(l.SoldAt.In(p.From.Location()))]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(l.Revenue)
		points[i].Quantity = points[i].Quantity.Add(l.Quantity)
		sales[i][l.SaleID] = struct{}{}
	}
	for i := range points {
		points[i].SalesCount = len(sales[i])
	}
	return points
}
