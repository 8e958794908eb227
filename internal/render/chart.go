package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/AngelCh415/funnel-report/internal/models"
)

var ErrNothingToDraw = errors.New("nothing to draw")

type ChartKind string

const (
	ChartCosts   ChartKind = "costs"
	ChartFunnel  ChartKind = "funnel"
	ChartReasons ChartKind = "reasons"
)

func ParseChartKind(s string) (ChartKind, bool) {
	switch k := ChartKind(s); k {
	case ChartCosts, ChartFunnel, ChartReasons:
		return k, true
	}
	return "", false
}

const (
	chartWidth  = 640
	chartHeight = 420
)

var (
	stagePalette  = hexColors("FF6B6B", "4ECDC4", "45B7D1", "96CEB4", "FFEAA7", "DDA0DD")
	reasonPalette = hexColors("FF9999", "99CCFF", "99FF99", "FFD700", "C9A0FF")
)

func hexColors(hex ...string) []drawing.Color {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}

func fill(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// CostChart dibuja el costo unitario de cada etapa con conteo positivo.
func CostChart(w io.Writer, s models.CostSeries) error {
	if len(s.Stages) == 0 || s.AxisBound <= 0 {
		return ErrNothingToDraw
	}
	bars := make([]chart.Value, 0, len(s.Stages))
	for i, st := range s.Stages {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d) %.0f", st.Stage, st.Count, st.Cost),
			Value: st.Cost,
			Style: fill(stagePalette[i%len(stagePalette)]),
		})
	}
	bc := chart.BarChart{
		Title:      s.Region + " - cost per stage",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   60,
		BarSpacing: 20,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  "unit cost",
			Range: &chart.ContinuousRange{Min: 0, Max: s.AxisBound},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// FunnelChart apila un segmento invisible de ancho Offset bajo cada barra para centrarla.
func FunnelChart(w io.Writer, s models.FunnelSeries) error {
	if s.Max <= 0 {
		return ErrNothingToDraw
	}
	blank := fill(drawing.ColorWhite)
	bars := make([]chart.StackedBar, 0, len(s.Stages))
	for j, st := range s.Stages {
		v := float64(st.Count)
		if v < 0 {
			v = 0
		}
		bars = append(bars, chart.StackedBar{
			Name:   st.Stage + " " + Conversion(j, st.ConversionRate),
			Width:  70,
			Values: []chart.Value{
				{Value: st.Offset, Style: blank},
				{Value: v, Label: strconv.Itoa(st.Count), Style: fill(stagePalette[j%len(stagePalette)])},
				{Value: st.Offset, Style: blank},
			},
		})
	}
	sbc := chart.StackedBarChart{
		Title:      s.Region + " - funnel",
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 20,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
	return sbc.Render(chart.PNG, w)
}

func ReasonChart(w io.Writer, s models.ReasonSeries) error {
	if len(s.Items) == 0 || s.AxisBound <= 0 {
		return ErrNothingToDraw
	}
	bars := make([]chart.Value, 0, len(s.Items))
	for i, it := range s.Items {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", it.Label, it.Count),
			Value: float64(it.Count),
			Style: fill(reasonPalette[i%len(reasonPalette)]),
		})
	}
	bc := chart.BarChart{
		Title:      s.Region + " - not converted",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   50,
		BarSpacing: 20,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  "leads",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(s.AxisBound)},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// Chart dibuja el gráfico kind para la primera región del reporte.
func Chart(w io.Writer, kind ChartKind, rep models.Report) error {
	if len(rep.Summary) == 0 {
		return ErrNothingToDraw
	}
	switch kind {
	case ChartCosts:
		return CostChart(w, rep.Costs[0])
	case ChartFunnel:
		return FunnelChart(w, rep.Funnels[0])
	case ChartReasons:
		return ReasonChart(w, rep.Reasons[0])
	}
	return fmt.Errorf("unknown chart kind %q", kind)
}
