package core

// MaxTips caps the advisor output, including the optional AI slot.
const MaxTips = 5

// starterTips is shown when the ledger has no activity at all, so the
// advisor still says something useful to a brand-new user.
var starterTips = []string{
	"💰 Mantenha um registro detalhado de suas finanças.",
	"🏦 Crie uma reserva de emergência equivalente a 3-6 meses de despesas.",
	"📊 Revise seus gastos mensalmente e ajuste seu orçamento.",
}

// Tips maps the metrics onto the canned advisory messages. The four
// rule groups run in fixed order (investments, expenses, volatility,
// savings) and each contributes exactly one message. All band
// boundaries are exclusive at the lower edge and inclusive at the
// upper, matching the ratio windows documented alongside each rule.
func Tips(m Metrics) []string {
	if m.ActiveMonths == 0 {
		return append([]string(nil), starterTips...)
	}

	tips := make([]string, 0, MaxTips)

	// Investment ratio: <10 low, 10-20 ideal, 20-30 above average, >30 too high.
	switch r := m.InvestmentRatio; {
	case r < 10:
		tips = append(tips, "🚨 Seu percentual de investimentos está muito baixo. Recomenda-se investir pelo menos 10-20% da renda.")
	case r <= 20:
		tips = append(tips, "✅ Ótimo! Você está investindo dentro da faixa recomendada (10-20%). Continue com o bom trabalho!")
	case r <= 30:
		tips = append(tips, "👍 Você está investindo acima da média! Apenas certifique-se de manter uma reserva de emergência.")
	default:
		tips = append(tips, "💡 Você está investindo muito! Verifique se não está comprometendo sua liquidez.")
	}

	// Expense ratio: >70 critical, 50-70 high, 30-50 healthy, <30 excellent.
	switch r := m.ExpenseRatio; {
	case r > 70:
		tips = append(tips, "⚠️ Suas despesas consomem mais de 70% da sua renda. É crucial cortar gastos.")
	case r > 50:
		tips = append(tips, "🔍 Suas despesas estão entre 50-70% da renda. Busque reduzir gastos não essenciais.")
	case r >= 30:
		tips = append(tips, "✅ Suas despesas estão em um bom patamar, entre 30-50% da renda.")
	default:
		tips = append(tips, "💫 Parabéns! Suas despesas estão muito bem controladas, abaixo de 30% da renda.")
	}

	// Revenue volatility: >30 high, 15-30 moderate, <=15 stable.
	switch r := m.RevenueVolatility; {
	case r > 30:
		tips = append(tips, "📊 Sua renda apresenta alta variabilidade. Considere um fundo de emergência maior.")
	case r > 15:
		tips = append(tips, "📈 Sua renda tem variação moderada. Mantenha uma reserva de emergência adequada.")
	default:
		tips = append(tips, "💪 Sua renda é bastante estável. Continue mantendo uma reserva de segurança.")
	}

	// Savings rate, only meaningful on a non-negative cashflow.
	if m.NetCashflow < 0 {
		tips = append(tips, "🐖 Atenção: você está gastando mais do que ganha. Revise seu orçamento.")
	} else {
		switch r := m.SavingsRate(); {
		case r < 10:
			tips = append(tips, "💰 Sua taxa de poupança está abaixo de 10%. Tente aumentar suas economias.")
		case r <= 20:
			tips = append(tips, "🎯 Boa taxa de poupança, entre 10-20%! Continue economizando.")
		default:
			tips = append(tips, "🌟 Excelente! Sua taxa de poupança está acima de 20%.")
		}
	}

	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}
