package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pfrederiksen/parkrun-stats/internal/clock"
	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// Series selects the metric plotted against date.
type Series int

const (
	SeriesFinishers Series = iota
	SeriesVolunteers
	SeriesMaleFirst
	SeriesFemaleFirst
)

// AllSeries lists every chart in report order.
var AllSeries = []Series{SeriesFinishers, SeriesVolunteers, SeriesMaleFirst, SeriesFemaleFirst}

// Label is the axis label of the series.
func (s Series) Label() string {
	switch s {
	case SeriesVolunteers:
		return "Volunteers"
	case SeriesMaleFirst:
		return "Male 1st Time"
	case SeriesFemaleFirst:
		return "Female 1st Time"
	default:
		return "Finishers"
	}
}

// Seconds reports whether the series plots finish times.
func (s Series) Seconds() bool {
	return s == SeriesMaleFirst || s == SeriesFemaleFirst
}

func (s Series) value(evt event.EventData) (int, bool) {
	switch s {
	case SeriesVolunteers:
		return evt.Volunteers, true
	case SeriesMaleFirst:
		fp, ok := evt.First(event.Male)
		return fp.Seconds, ok
	case SeriesFemaleFirst:
		fp, ok := evt.First(event.Female)
		return fp.Seconds, ok
	default:
		return evt.Finishers, true
	}
}

const (
	secondsTickStep = 30
	maxSecondsTicks = 10
	chartWidth      = 8 * vg.Inch
	chartHeight     = 4 * vg.Inch
)

// ErrNoPoints is returned for a series with no values, such as female first
// places at an event nobody has run as female.
var ErrNoPoints = errors.New("series has no points")

// Chart renders series against date as a PNG. Events without a value for the
// series are skipped.
func Chart(summary *event.Summary, series Series) ([]byte, error) {
	var (
		points plotter.XYs
		values []int
	)
	for _, evt := range summary.Events {
		v, ok := series.value(evt)
		if !ok {
			continue
		}
		points = append(points, plotter.XY{X: float64(evt.Date.Unix()), Y: float64(v)})
		values = append(values, v)
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Parkrun - %s against Date", summary.Title, series.Label())
	p.X.Label.Text = "Date"
	p.Y.Label.Text = series.Label()
	p.X.Tick.Marker = plot.TimeTicks{Format: event.DateLayout}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("building %s line: %w", series.Label(), err)
	}
	p.Add(line)

	if series.Seconds() {
		p.Y.Tick.Marker = plot.ConstantTicks(SecondsTicks(values))
	}

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("rendering %s chart: %w", series.Label(), err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding %s chart: %w", series.Label(), err)
	}
	return buf.Bytes(), nil
}

// SecondsTicks places MM:SS labels on a 30-second grid spanning values,
// keeping every nth tick so no more than ten remain.
func SecondsTicks(values []int) []plot.Tick {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	first := roundToStep(lo)
	last := roundToStep(hi)

	var grid []int
	for s := first; s <= last; s += secondsTickStep {
		grid = append(grid, s)
	}

	stride := len(grid)/maxSecondsTicks + 1
	ticks := make([]plot.Tick, 0, len(grid)/stride+1)
	for i := 0; i < len(grid); i += stride {
		ticks = append(ticks, plot.Tick{Value: float64(grid[i]), Label: clock.SecondsToClock(grid[i])})
	}
	return ticks
}

func roundToStep(seconds int) int {
	return int(math.RoundToEven(float64(seconds)/secondsTickStep)) * secondsTickStep
}
