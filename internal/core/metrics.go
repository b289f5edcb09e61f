package core

import "math"

// Metrics is the derived scalar summary the advisor rules run on.
// All ratios are percentages and guard against a zero denominator by
// substituting a floor of 1, so they never divide by zero.
type Metrics struct {
	TotalRevenue     float64
	TotalExpenses    float64
	TotalInvestments float64
	NetCashflow      float64

	AverageMonthlyRevenue  float64
	AverageMonthlyExpenses float64

	InvestmentRatio   float64 // investments / revenue * 100
	ExpenseRatio      float64 // expenses / revenue * 100
	RevenueVolatility float64 // stddev(monthly revenue) / mean(monthly revenue) * 100

	// ActiveMonths counts months with at least one transaction of any
	// type. Zero means the ledger is empty.
	ActiveMonths int
}

// ComputeMetrics derives the financial health metrics from a ledger.
//
// Monthly averages and volatility are taken over the months that have
// any activity, not over the full calendar: a ledger covering three
// months averages over three. Volatility uses the sample standard
// deviation and is zero when fewer than two months are active.
func ComputeMetrics(transactions []Transaction) Metrics {
	var m Metrics
	summary := Aggregate(transactions)

	active := make(map[Month]bool, 12)
	for _, t := range transactions {
		if t.Month.Index() >= 0 {
			active[t.Month] = true
		}
	}
	m.ActiveMonths = len(active)

	var monthlyRevenue []float64
	for _, row := range summary.Rows {
		if !active[row.Month] {
			continue
		}
		m.TotalRevenue += row.Receita
		m.TotalExpenses += row.Despesa
		m.TotalInvestments += row.Investimento
		monthlyRevenue = append(monthlyRevenue, row.Receita)
		m.AverageMonthlyExpenses += row.Despesa
	}
	m.NetCashflow = m.TotalRevenue - m.TotalExpenses

	if m.ActiveMonths > 0 {
		n := float64(m.ActiveMonths)
		m.AverageMonthlyRevenue = m.TotalRevenue / n
		m.AverageMonthlyExpenses /= n
	}

	m.InvestmentRatio = m.TotalInvestments / floor1(m.TotalRevenue) * 100
	m.ExpenseRatio = m.TotalExpenses / floor1(m.TotalRevenue) * 100
	m.RevenueVolatility = sampleStddev(monthlyRevenue) / floor1(m.AverageMonthlyRevenue) * 100

	return m
}

// SavingsRate is the net cashflow as a percentage of revenue. It is
// only meaningful when NetCashflow >= 0; the advisor short-circuits the
// negative case before reading it.
func (m Metrics) SavingsRate() float64 {
	return m.NetCashflow / floor1(m.TotalRevenue) * 100
}

func floor1(v float64) float64 {
	return math.Max(v, 1)
}

// sampleStddev returns the sample standard deviation (n-1 divisor), or
// zero for fewer than two values.
func sampleStddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
