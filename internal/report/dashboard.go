package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

// Report is everything the dashboard shows for one analysis.
type Report struct {
	Location   string                `json:"location"`
	Date       time.Time             `json:"date"`
	Thresholds domain.Thresholds     `json:"thresholds"`
	Result     domain.AnalysisResult `json:"result"`
}

// Summary is the display-rounded view of a Report, suitable for JSON output.
type Summary struct {
	Location        string            `json:"location"`
	Date            string            `json:"date"`
	Years           int               `json:"years"`
	Probabilities   map[string]string `json:"probabilities"`
	Risks           map[string]string `json:"risks"`
	MeanMaxTempC    float64           `json:"mean_max_temp_c"`
	MeanRainMM      float64           `json:"mean_rain_mm"`
	TrendCPerDecade float64           `json:"trend_c_per_decade"`
	Trend           string            `json:"trend"`
	Recommendation  Recommendation    `json:"recommendation"`
}

// Summarize rounds means to one decimal and the trend to two.
func Summarize(r Report) Summary {
	s := Summary{
		Location:        r.Location,
		Date:            r.Date.Format(time.DateOnly),
		Years:           r.Result.SampleSize,
		Probabilities:   make(map[string]string, len(r.Result.Probabilities)),
		Risks:           make(map[string]string, len(r.Result.Probabilities)),
		MeanMaxTempC:    Round(r.Result.MeanMaxTempC, 1),
		MeanRainMM:      Round(r.Result.MeanRainMM, 1),
		TrendCPerDecade: Round(r.Result.TrendCPerDecade, 2),
		Recommendation:  Recommend(r.Result),
	}
	s.Trend, _ = FormatTrend(r.Result.TrendCPerDecade)
	for c, p := range r.Result.Probabilities {
		s.Probabilities[string(c)] = FormatProbability(p)
		s.Risks[string(c)] = domain.Classify(p).String()
	}
	return s
}

const barWidth = 25

// Render writes the plain-text dashboard.
func Render(w io.Writer, r Report) error {
	s := Summarize(r)

	var b strings.Builder
	fmt.Fprintf(&b, "Parade odds for %s in %s\n", r.Date.Format("Monday, January 2"), r.Location)
	fmt.Fprintf(&b, "Based on %d years of history for this calendar day.\n\n", s.Years)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tODDS\tRISK\t")
	for _, c := range domain.Conditions() {
		p, ok := r.Result.Probabilities[c]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ConditionLabel(c, r.Thresholds), FormatProbability(p), RiskLabel(p), bar(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nAverage daily high:   %.1f°C\n", s.MeanMaxTempC)
	fmt.Fprintf(&b, "Average rainfall:     %.1f mm\n", s.MeanRainMM)
	fmt.Fprintf(&b, "Max temp trend:       %s per decade\n", s.Trend)
	fmt.Fprintf(&b, "\n%s\n", s.Recommendation.Text)

	_, err := io.WriteString(w, b.String())
	return err
}

func bar(p float64) string {
	n := int(p*barWidth + 0.5)
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}
