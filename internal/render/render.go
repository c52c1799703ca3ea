// Package render draws dashboard state for the terminal.
// 상승은 빨강, 하락은 파랑 (국내 시세 관례)
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/notice"
	"github.com/wonny/stockai/dashboard/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)
)

// column widths
const (
	rankWidth   = 4
	nameWidth   = 18
	symbolWidth = 11
	priceWidth  = 11
	changeWidth = 9
	valueWidth  = 10
	modelWidth  = 12
	cellWidth   = 20
)

// Rankings renders the trading value ranking table
func Rankings(rankings []contracts.StockRanking, updatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("거래대금 상위"))
	b.WriteString("\n")

	if len(rankings) == 0 {
		b.WriteString(mutedStyle.Render("순위 데이터가 없습니다"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(row(headerStyle,
		cell("#", rankWidth, lipgloss.Right),
		cell("종목명", nameWidth, lipgloss.Left),
		cell("코드", symbolWidth, lipgloss.Left),
		cell("현재가", priceWidth, lipgloss.Right),
		cell("등락률", changeWidth, lipgloss.Right),
		cell("거래대금", valueWidth, lipgloss.Right),
		" 추이",
	))

	for _, r := range rankings {
		b.WriteString(row(lipgloss.NewStyle(),
			cell(fmt.Sprintf("%d", r.Rank), rankWidth, lipgloss.Right),
			cell(r.Name, nameWidth, lipgloss.Left),
			cell(r.Symbol, symbolWidth, lipgloss.Left),
			cell(Price(r.CurrentPrice), priceWidth, lipgloss.Right),
			changeStyle(r.ChangeRate).Render(cell(Percent(r.ChangeRate), changeWidth, lipgloss.Right)),
			cell(TradingValue(r.TradingValue), valueWidth, lipgloss.Right),
			" "+changeStyle(r.ChangeRate).Render(Sparkline(r.MiniChartData)),
		))
	}

	if !updatedAt.IsZero() {
		b.WriteString(mutedStyle.Render("갱신: " + updatedAt.Format("15:04:05")))
		b.WriteString("\n")
	}

	return b.String()
}

// Prediction renders per-model predictions and the ensemble row.
// Missing model/horizon pairs render as "-".
func Prediction(result *contracts.PredictionResult) string {
	var b strings.Builder

	title := fmt.Sprintf("%s (%s) 현재가 %s", result.Name, result.Symbol, Price(result.CurrentPrice))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	cols := []string{cell("모델", modelWidth, lipgloss.Left)}
	for _, h := range contracts.Horizons() {
		cols = append(cols, cell(h.Label(), cellWidth, lipgloss.Right))
	}
	b.WriteString(row(headerStyle, cols...))

	for _, model := range result.Models() {
		cols := []string{cell(model, modelWidth, lipgloss.Left)}
		for _, h := range contracts.Horizons() {
			pred, ok := result.Prediction(model, h)
			cols = append(cols, periodCell(pred, ok))
		}
		b.WriteString(row(lipgloss.NewStyle(), cols...))
	}

	cols = []string{cell("종합", modelWidth, lipgloss.Left)}
	for _, h := range contracts.Horizons() {
		ens, ok := result.EnsembleFor(h)
		cols = append(cols, ensembleCell(ens, ok))
	}
	b.WriteString(row(headerStyle, cols...))

	if result.Timestamp != "" {
		b.WriteString(mutedStyle.Render("예측 시각: " + result.Timestamp))
		b.WriteString("\n")
	}

	return b.String()
}

// Notice renders a dismissible error box.
// The retry hint only shows for retryable failures.
func Notice(n *notice.Notice) string {
	if n == nil {
		return ""
	}

	lines := []string{
		warnStyle.Render(n.Title),
		n.Message,
		mutedStyle.Render(n.Remedy),
	}
	if n.Retryable {
		lines = append(lines, mutedStyle.Render("[r] 다시 시도"))
	}

	return noticeStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// Health renders the backend health line
func Health(status *contracts.HealthStatus) string {
	if status == nil {
		return downStyle.Render("백엔드 연결 실패") + "\n"
	}
	return okStyle.Render("● "+status.Status) + " " + mutedStyle.Render(status.Timestamp) + "\n"
}

// Dashboard renders the whole snapshot: notice, rankings, selected prediction
func Dashboard(snap store.Snapshot) string {
	var b strings.Builder

	b.WriteString(Notice(snap.Notice))
	b.WriteString(Rankings(snap.Rankings, snap.RankingsUpdatedAt))
	b.WriteString("\n")

	switch {
	case snap.IsLoading && snap.SelectedStock != nil:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s 예측 중...", snap.SelectedStock.Name)))
		b.WriteString("\n")
	case snap.Prediction != nil:
		b.WriteString(Prediction(snap.Prediction))
	}

	return b.String()
}

func periodCell(pred contracts.PeriodPrediction, ok bool) string {
	if !ok {
		return cell("-", cellWidth, lipgloss.Right)
	}
	text := fmt.Sprintf("%s (%s)", Price(pred.Price), pred.Sentiment)
	return sentimentStyle(pred.Sentiment).Render(cell(text, cellWidth, lipgloss.Right))
}

func ensembleCell(ens contracts.EnsemblePrediction, ok bool) string {
	if !ok {
		return cell("-", cellWidth, lipgloss.Right)
	}
	text := fmt.Sprintf("%s σ%s", Price(ens.Price), Price(ens.StdDev))
	if ens.Disagreement {
		text = "⚠ " + text
		return warnStyle.Render(cell(text, cellWidth, lipgloss.Right))
	}
	return sentimentStyle(ens.Sentiment).Render(cell(text, cellWidth, lipgloss.Right))
}

func cell(text string, width int, align lipgloss.Position) string {
	return lipgloss.NewStyle().Width(width).Align(align).Render(text)
}

func row(style lipgloss.Style, cols ...string) string {
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...)) + "\n"
}

func changeStyle(rate float64) lipgloss.Style {
	switch {
	case rate > 0:
		return upStyle
	case rate < 0:
		return downStyle
	default:
		return lipgloss.NewStyle()
	}
}

func sentimentStyle(s contracts.Sentiment) lipgloss.Style {
	if s == contracts.SentimentNegative {
		return downStyle
	}
	return upStyle
}
