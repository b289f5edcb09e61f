package core

// MonthSummary holds the per-type sums for a single month.
type MonthSummary struct {
	Month        Month
	Receita      float64
	Despesa      float64
	Investimento float64
	Net          float64 // Receita - Despesa
}

// AnnualSummary always carries exactly twelve rows in calendar order,
// zero-filled for months without activity.
type AnnualSummary struct {
	Rows [12]MonthSummary
}

// Aggregate groups transactions by month and type, sums values and
// computes the monthly net. Transactions with an unknown month name are
// skipped; they cannot be placed on the calendar.
func Aggregate(transactions []Transaction) AnnualSummary {
	var s AnnualSummary
	for i, m := range Months {
		s.Rows[i].Month = m
	}
	for _, t := range transactions {
		i := t.Month.Index()
		if i < 0 {
			continue
		}
		switch t.Type {
		case Receita:
			s.Rows[i].Receita += t.Value
		case Despesa:
			s.Rows[i].Despesa += t.Value
		case Investimento:
			s.Rows[i].Investimento += t.Value
		}
	}
	for i := range s.Rows {
		s.Rows[i].Net = s.Rows[i].Receita - s.Rows[i].Despesa
	}
	return s
}

// Row returns the summary row for the given month, and false for an
// unknown month name.
func (s AnnualSummary) Row(m Month) (MonthSummary, bool) {
	i := m.Index()
	if i < 0 {
		return MonthSummary{}, false
	}
	return s.Rows[i], true
}
