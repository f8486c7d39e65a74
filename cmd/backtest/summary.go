package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-ledger/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Faint(true).Width(22)
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func signed(v float64, text string) string {
	if v < 0 {
		return lossStyle.Render(text)
	}

	return gainStyle.Render(text)
}

func percent(v float64) string {
	return signed(v, fmt.Sprintf("%+.2f%%", v*100))
}

func money(v float64) string {
	return signed(v, fmt.Sprintf("%+.2f", v))
}

// renderSummary formats the statistics of a finished run for the terminal.
func renderSummary(stats types.BacktestStats) string {
	rows := [][2]string{
		{"Strategy", stats.Strategy},
		{"Symbol", stats.Symbol},
		{"Window", fmt.Sprintf("%s → %s", stats.StartTime.Format("2006-01-02 15:04"), stats.EndTime.Format("2006-01-02 15:04"))},
		{"Bars", fmt.Sprintf("%d (%d failed)", stats.Bars, stats.FailedBars)},
		{"Initial capital", fmt.Sprintf("%.2f", stats.InitialCapital)},
		{"Final value", fmt.Sprintf("%.2f", stats.FinalValue)},
		{"Strategy return", percent(stats.Returns.StrategyReturn)},
		{"Strategy profit", money(stats.Returns.StrategyProfit)},
		{"Buy & hold return", percent(stats.Returns.BuyAndHoldReturn)},
		{"Relative return", percent(stats.Returns.RelativeReturn)},
		{"Max drawdown", lossStyle.Render(fmt.Sprintf("%.2f%%", stats.Returns.MaxDrawdown*100))},
		{"Volatility", fmt.Sprintf("%.2f%%", stats.Returns.Volatility*100)},
		{"Trades", fmt.Sprintf("%d (%d buys, %d sells)", stats.Trades.Total, stats.Trades.Buys, stats.Trades.Sells)},
	}

	if stats.TradesFilePath != "" {
		rows = append(rows, [2]string{"Results", filepathDir(stats.TradesFilePath)})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(row[0]), row[1]))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Backtest "+stats.ID),
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}

func filepathDir(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i > 0 {
		return path[:i]
	}

	return path
}
