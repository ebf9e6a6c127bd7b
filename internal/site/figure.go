package site

import (
	"time"

	"github.com/nordgrid/sweload/internal/analytics"
	"github.com/nordgrid/sweload/internal/timeseries"
)

// Figure is a Plotly figure: trace data plus layout, serialized into the
// page and handed to Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Type string    `json:"type"`
	Mode string    `json:"mode,omitempty"`
	Name string    `json:"name,omitempty"`
	Line *Line     `json:"line,omitempty"`
}

type Line struct {
	Shape string  `json:"shape,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Layout struct {
	HoverMode string  `json:"hovermode,omitempty"`
	XAxis     Axis    `json:"xaxis"`
	YAxis     Axis    `json:"yaxis"`
	Margin    Margin  `json:"margin"`
	Legend    *Legend `json:"legend,omitempty"`
}

type Axis struct {
	Title         string         `json:"title,omitempty"`
	Range         []string       `json:"range,omitempty"`
	RangeSlider   *RangeSlider   `json:"rangeslider,omitempty"`
	RangeSelector *RangeSelector `json:"rangeselector,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

type RangeSelector struct {
	Buttons []SelectorButton `json:"buttons"`
}

type SelectorButton struct {
	Count    int    `json:"count,omitempty"`
	Label    string `json:"label"`
	Step     string `json:"step"`
	StepMode string `json:"stepmode,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Legend struct {
	Title LegendTitle `json:"title"`
}

type LegendTitle struct {
	Text string `json:"text"`
}

const plotStamp = "2006-01-02 15:04:05"

func rangeButtons() *RangeSelector {
	return &RangeSelector{Buttons: []SelectorButton{
		{Count: 24, Step: "hour", StepMode: "backward", Label: "1d"},
		{Count: 3, Step: "day", StepMode: "backward", Label: "3d"},
		{Count: 7, Step: "day", StepMode: "backward", Label: "7d"},
		{Count: 1, Step: "month", StepMode: "backward", Label: "1m"},
		{Count: 3, Step: "month", StepMode: "backward", Label: "3m"},
		{Count: 1, Step: "year", StepMode: "backward", Label: "1y"},
		{Step: "year", StepMode: "todate", Label: "YTD"},
		{Step: "all", Label: "All"},
	}}
}

// LoadFigure builds the hourly load chart: one hv-step line per zone in
// canonical order (country total drawn heavier), full history in the data
// with the initial viewport limited to the trailing viewDays days.
func LoadFigure(rows []timeseries.DisplayRow, tzName string, viewDays int) Figure {
	byZone := make(map[timeseries.Zone]*Trace)
	var order []timeseries.Zone
	var last time.Time

	for _, row := range rows {
		trace, ok := byZone[row.Zone]
		if !ok {
			width := 2.0
			if row.Zone == timeseries.ZoneSETotal {
				width = 3.0
			}
			trace = &Trace{
				Type: "scatter",
				Mode: "lines",
				Name: row.Zone.String(),
				Line: &Line{Shape: "hv", Width: width},
			}
			byZone[row.Zone] = trace
			order = append(order, row.Zone)
		}
		trace.X = append(trace.X, row.Time.Format(plotStamp))
		trace.Y = append(trace.Y, row.MW)
		if row.Time.After(last) {
			last = row.Time
		}
	}

	fig := Figure{
		Layout: Layout{
			HoverMode: "x unified",
			XAxis: Axis{
				Title:         "Date (" + tzName + ")",
				RangeSlider:   &RangeSlider{Visible: true},
				RangeSelector: rangeButtons(),
			},
			YAxis:  Axis{Title: "Load (MW)"},
			Margin: Margin{L: 60, R: 30, T: 20, B: 40},
		},
	}
	for _, zone := range order {
		fig.Data = append(fig.Data, *byZone[zone])
	}
	if len(fig.Data) > 1 {
		fig.Layout.Legend = &Legend{Title: LegendTitle{Text: "Zone"}}
	} else if len(fig.Data) == 1 {
		fig.Data[0].Name = ""
	}
	if viewDays > 0 && !last.IsZero() {
		start := last.Add(-time.Duration(viewDays) * 24 * time.Hour)
		fig.Layout.XAxis.Range = []string{start.Format(plotStamp), last.Format(plotStamp)}
	}
	return fig
}

// DailyFigure builds the daily-average bar chart.
func DailyFigure(avgs []analytics.DailyAverage, tzName string) Figure {
	trace := Trace{Type: "bar"}
	for _, avg := range avgs {
		trace.X = append(trace.X, avg.Day.Format("2006-01-02"))
		trace.Y = append(trace.Y, avg.MW)
	}
	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			XAxis:  Axis{Title: "Date (" + tzName + ")"},
			YAxis:  Axis{Title: "Average Load (MW)"},
			Margin: Margin{L: 60, R: 30, T: 20, B: 40},
		},
	}
}
