package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals are the sale-side figures of a period
type SalesTotals struct {
	GrossRevenue  decimal.Decimal // sum of unit price x quantity
	ItemDiscounts decimal.Decimal
	SaleDiscounts decimal.Decimal
	COGS          decimal.Decimal // sum of unit cost x quantity
	SalesCount    int64
}

// CategoryAmount is a total grouped by category
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DRE is the income statement of a period
type DRE struct {
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	GrossRevenue     decimal.Decimal  `json:"grossRevenue"`
	Deductions       decimal.Decimal  `json:"deductions"`
	NetRevenue       decimal.Decimal  `json:"netRevenue"`
	COGS             decimal.Decimal  `json:"cogs"`
	GrossProfit      decimal.Decimal  `json:"grossProfit"`
	OperatingExpense decimal.Decimal  `json:"operatingExpenses"`
	Expenses         []CategoryAmount `json:"expensesByCategory"`
	OtherIncome      decimal.Decimal  `json:"otherIncome"`
	Incomes          []CategoryAmount `json:"otherIncomeByCategory"`
	NetResult        decimal.Decimal  `json:"netResult"`
	GrossMargin      decimal.Decimal  `json:"grossMargin"`
	NetMargin        decimal.Decimal  `json:"netMargin"`
	SalesCount       int64            `json:"salesCount"`
}

// BuildDRE derives the income statement lines from raw totals
func BuildDRE(p Period, sales SalesTotals, expenses, incomes []CategoryAmount) DRE {
	deductions := sales.ItemDiscounts.Add(sales.SaleDiscounts)
	netRevenue := sales.GrossRevenue.Sub(deductions)
	grossProfit := netRevenue.Sub(sales.COGS)
	opex := sumAmounts(expenses)
	other := sumAmounts(incomes)
	net := grossProfit.Sub(opex).Add(other)

	return DRE{
		From:             p.From,
		To:               p.To,
		GrossRevenue:     sales.GrossRevenue.Round(2),
		Deductions:       deductions.Round(2),
		NetRevenue:       netRevenue.Round(2),
		COGS:             sales.COGS.Round(2),
		GrossProfit:      grossProfit.Round(2),
		OperatingExpense: opex.Round(2),
		Expenses:         sortedCategories(expenses),
		OtherIncome:      other.Round(2),
		Incomes:          sortedCategories(incomes),
		NetResult:        net.Round(2),
		GrossMargin:      percentOf(grossProfit, netRevenue),
		NetMargin:        percentOf(net, netRevenue),
		SalesCount:       sales.SalesCount,
	}
}

// ComparativeLine compares one DRE line across two periods
type ComparativeLine struct {
	Line         string           `json:"line"`
	Current      decimal.Decimal  `json:"current"`
	Previous     decimal.Decimal  `json:"previous"`
	Variation    decimal.Decimal  `json:"variation"`
	VariationPct *decimal.Decimal `json:"variationPct"`
}

// Comparative is a DRE side by side with the preceding period
type Comparative struct {
	Current  DRE               `json:"current"`
	Previous DRE               `json:"previous"`
	Lines    []ComparativeLine `json:"lines"`
}

// BuildComparative lines up two statements. VariationPct is nil when the
// previous value is zero.
func BuildComparative(current, previous DRE) Comparative {
	pairs := []struct {
		name     string
		cur, prv decimal.Decimal
	}{
		{"grossRevenue", current.GrossRevenue, previous.GrossRevenue},
		{"deductions", current.Deductions, previous.Deductions},
		{"netRevenue", current.NetRevenue, previous.NetRevenue},
		{"cogs", current.COGS, previous.COGS},
		{"grossProfit", current.GrossProfit, previous.GrossProfit},
		{"operatingExpenses", current.OperatingExpense, previous.OperatingExpense},
		{"otherIncome", current.OtherIncome, previous.OtherIncome},
		{"netResult", current.NetResult, previous.NetResult},
	}
	lines := make([]ComparativeLine, 0, len(pairs))
	for _, p := range pairs {
		line := ComparativeLine{
			Line:      p.name,
			Current:   p.cur,
			Previous:  p.prv,
			Variation: p.cur.Sub(p.prv),
		}
		if !p.prv.IsZero() {
			pct := line.Variation.Div(p.prv.Abs()).Mul(hundred).Round(2)
			line.VariationPct = &pct
		}
		lines = append(lines, line)
	}
	return Comparative{Current: current, Previous: previous, Lines: lines}
}

// FlowDirection says whether money came in or went out
type FlowDirection string

const (
	FlowIn  FlowDirection = "in"
	FlowOut FlowDirection = "out"
)

// CashMovement is a single realized inflow or outflow
type CashMovement struct {
	At        time.Time
	Amount    decimal.Decimal
	Direction FlowDirection
	Source    string // sale, receipt, payment, income, expense
}

// CashFlowBucket is one period bucket of the cash flow
type CashFlowBucket struct {
	BucketStart time.Time       `json:"bucketStart"`
	Inflows     decimal.Decimal `json:"inflows"`
	Outflows    decimal.Decimal `json:"outflows"`
	Net         decimal.Decimal `json:"net"`
	Balance     decimal.Decimal `json:"balance"`
}

// CashFlow is the realized cash flow of a period
type CashFlow struct {
	From          time.Time                  `json:"from"`
	To            time.Time                  `json:"to"`
	Granularity   Granularity                `json:"granularity"`
	TotalInflows  decimal.Decimal            `json:"totalInflows"`
	TotalOutflows decimal.Decimal            `json:"totalOutflows"`
	Net           decimal.Decimal            `json:"net"`
	BySource      map[string]decimal.Decimal `json:"bySource"`
	Buckets       []CashFlowBucket           `json:"buckets"`
}

// BuildCashFlow buckets movements and carries a running balance
func BuildCashFlow(p Period, g Granularity, movements []CashMovement) CashFlow {
	starts := g.Buckets(p)
	buckets := make([]CashFlowBucket, len(starts))
	index := make(map[time.Time]int, len(starts))
	for i, s := range starts {
		buckets[i] = CashFlowBucket{BucketStart: s, Inflows: decimal.Zero, Outflows: decimal.Zero}
		index[s] = i
	}

	cf := CashFlow{
		From:          p.From,
		To:            p.To,
		Granularity:   g,
		TotalInflows:  decimal.Zero,
		TotalOutflows: decimal.Zero,
		BySource:      make(map[string]decimal.Decimal),
	}
	for _, m := range movements {
		if !p.Contains(m.At) {
			continue
		}
		i, ok := index[g.Truncate(m.At.In(p.From.Location()))]
		if !ok {
			continue
		}
		if m.Direction == FlowOut {
			buckets[i].Outflows = buckets[i].Outflows.Add(m.Amount)
			cf.TotalOutflows = cf.TotalOutflows.Add(m.Amount)
			cf.BySource[m.Source] = cf.BySource[m.Source].Sub(m.Amount)
		} else {
			buckets[i].Inflows = buckets[i].Inflows.Add(m.Amount)
			cf.TotalInflows = cf.TotalInflows.Add(m.Amount)
			cf.BySource[m.Source] = cf.BySource[m.Source].Add(m.Amount)
		}
	}

	balance := decimal.Zero
	for i := range buckets {
		buckets[i].Net = buckets[i].Inflows.Sub(buckets[i].Outflows)
		balance = balance.Add(buckets[i].Net)
		buckets[i].Balance = balance
	}
	cf.Buckets = buckets
	cf.Net = cf.TotalInflows.Sub(cf.TotalOutflows)
	return cf
}

func sumAmounts(items []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// sortedCategories merges duplicate categories and orders by amount desc
func sortedCategories(items []CategoryAmount) []CategoryAmount {
	merged := make(map[string]decimal.Decimal)
	for _, it := range items {
		name := it.Category
		if name == "" {
			name = "Outros"
		}
		merged[name] = merged[name].Add(it.Amount)
	}
	out := make([]CategoryAmount, 0, len(merged))
	for name, amount := range merged {
		out = append(out, CategoryAmount{Category: name, Amount: amount.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
