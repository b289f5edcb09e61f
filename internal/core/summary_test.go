package core

import "testing"

func tx(month Month, typ TransactionType, value float64) Transaction {
	return Transaction{Month: month, Year: 2025, Category: "c", Type: typ, Value: value}
}

func TestAggregateEmptyLedger(t *testing.T) {
	s := Aggregate(nil)
	if len(s.Rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(s.Rows))
	}
	for i, row := range s.Rows {
		if row.Month != Months[i] {
			t.Fatalf("row %d: month %s out of calendar order", i, row.Month)
		}
		if row.Receita != 0 || row.Despesa != 0 || row.Investimento != 0 || row.Net != 0 {
			t.Fatalf("row %d (%s): expected all-zero, got %+v", i, row.Month, row)
		}
	}
}

func TestAggregateSumsAndNet(t *testing.T) {
	s := Aggregate([]Transaction{
		tx("Janeiro", Receita, 3000),
		tx("Janeiro", Receita, 500),
		tx("Janeiro", Despesa, 1200),
		tx("Janeiro", Investimento, 300),
		tx("Março", Despesa, 80),
	})

	jan, _ := s.Row("Janeiro")
	if jan.Receita != 3500 || jan.Despesa != 1200 || jan.Investimento != 300 {
		t.Fatalf("janeiro sums wrong: %+v", jan)
	}
	if jan.Net != 2300 {
		t.Fatalf("janeiro net = %v, want 2300", jan.Net)
	}

	mar, _ := s.Row("Março")
	if mar.Net != -80 {
		t.Fatalf("março net = %v, want -80", mar.Net)
	}

	// Untouched months stay zero.
	fev, _ := s.Row("Fevereiro")
	if fev != (MonthSummary{Month: "Fevereiro"}) {
		t.Fatalf("fevereiro should be zero row: %+v", fev)
	}
}

func TestAggregateNetEqualsReceitaMinusDespesa(t *testing.T) {
	s := Aggregate([]Transaction{
		tx("Junho", Receita, 10),
		tx("Junho", Despesa, 25),
		tx("Dezembro", Receita, 7),
	})
	for _, row := range s.Rows {
		if row.Net != row.Receita-row.Despesa {
			t.Fatalf("%s: net %v != receita %v - despesa %v", row.Month, row.Net, row.Receita, row.Despesa)
		}
	}
}

func TestAggregateSkipsUnknownMonth(t *testing.T) {
	s := Aggregate([]Transaction{tx("Smarch", Despesa, 99)})
	for _, row := range s.Rows {
		if row.Despesa != 0 {
			t.Fatalf("unknown month should not land anywhere: %+v", row)
		}
	}
}
