// Package charts extracts the figures of the election dashboard from the
// three datasets and renders them as PNG files.
package charts

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
	"github.com/KaramelBytes/socialstats-cli/internal/summary"
)

// Dataset names as configured.
const (
	FBPosts = "fb_posts"
	FBAds   = "fb_ads"
	TWPosts = "tw_posts"
)

// Source columns.
const (
	ColFBLikes      = "Likes"
	ColTWLikes      = "likeCount"
	ColBylines      = "bylines"
	ColSpend        = "estimated_spend"
	ColInteractions = "Total Interactions"
	topicMarker     = "topic_illuminating"
	topicSuffix     = "_topic_illuminating"
	freeFairColumn  = "freefair_illuminating"
)

// TopAdvertisers is how many bylines the advertising chart lists.
const TopAdvertisers = 10

// LabelWidth is the longest advertiser label before it is cut with "...".
const LabelWidth = 30

// Sources are the loaded datasets. Any of them may be nil when missing.
type Sources struct {
	Posts   *dataset.Table
	Ads     *dataset.Table
	Twitter *dataset.Table
}

// Bar is one labeled value.
type Bar struct {
	Label string
	Value float64
}

// TopicShare is the percentage of rows flagged with a topic on each platform.
type TopicShare struct {
	Topic   string
	Ads     float64
	Posts   float64
	Twitter float64
}

// Data holds everything the four charts plot.
type Data struct {
	FBLogLikes []float64
	TWLogLikes []float64

	TopBylines []Bar
	Spend      []float64
	SpendTotal float64
	SpendMean  float64

	Topics []TopicShare

	Volumes    []Bar
	Engagement []Bar

	// Warnings name inputs that were absent; the affected panels are empty.
	Warnings []string
}

// Build extracts chart data from src. Missing datasets or columns leave the
// corresponding series empty and add a warning.
func Build(src Sources) *Data {
	d := &Data{}
	warn := func(format string, args ...any) { d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...)) }
	col := func(t *dataset.Table, ds, name string) []float64 {
		if t == nil {
			return nil
		}
		vals, ok := NumericColumn(t, name)
		if !ok {
			warn("%s: column %q not found", ds, name)
		}
		return vals
	}
	if src.Posts == nil {
		warn("%s: dataset not loaded", FBPosts)
	}
	if src.Ads == nil {
		warn("%s: dataset not loaded", FBAds)
	}
	if src.Twitter == nil {
		warn("%s: dataset not loaded", TWPosts)
	}

	d.FBLogLikes = LogLikes(col(src.Posts, FBPosts, ColFBLikes))
	twLikes := col(src.Twitter, TWPosts, ColTWLikes)
	d.TWLogLikes = LogLikes(twLikes)

	if src.Ads != nil {
		top, ok := TopValues(src.Ads, ColBylines, TopAdvertisers)
		if !ok {
			warn("%s: column %q not found", FBAds, ColBylines)
		}
		for _, vc := range top {
			d.TopBylines = append(d.TopBylines, Bar{Label: TruncateLabel(vc.Value, LabelWidth), Value: float64(vc.Count)})
		}
	}
	d.Spend = col(src.Ads, FBAds, ColSpend)
	d.SpendTotal, d.SpendMean = SumMean(d.Spend)

	d.Topics = TopicShares(src)

	d.Volumes = []Bar{
		{Label: platformLabel("FB Posts", src.Posts), Value: float64(rows(src.Posts))},
		{Label: platformLabel("FB Ads", src.Ads), Value: float64(rows(src.Ads))},
		{Label: platformLabel("Twitter", src.Twitter), Value: float64(rows(src.Twitter))},
	}
	_, fbAvg := SumMean(col(src.Posts, FBPosts, ColInteractions))
	_, twAvg := SumMean(twLikes)
	d.Engagement = []Bar{
		{Label: "Facebook Posts", Value: fbAvg},
		{Label: "Twitter Posts", Value: twAvg},
	}
	return d
}

// NumericColumn returns the parseable values of the named column. Blank and
// non-numeric cells are skipped. ok is false when the column is absent.
func NumericColumn(t *dataset.Table, name string) (vals []float64, ok bool) {
	i, ok := t.Index(name)
	if !ok {
		return nil, false
	}
	for _, r := range t.Rows {
		if v, good := summary.ParseNumeric(r[i]); good && !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	return vals, true
}

// LogLikes maps like counts to log10, treating 0 as 1. Negative counts are dropped.
func LogLikes(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v == 0 {
			v = 1
		}
		out = append(out, math.Log10(v))
	}
	return out
}

// TopValues returns the n most frequent non-blank values of the column, ties
// in order of first appearance.
func TopValues(t *dataset.Table, name string, n int) ([]summary.ValueCount, bool) {
	i, ok := t.Index(name)
	if !ok {
		return nil, false
	}
	var order []string
	counts := map[string]int{}
	for _, r := range t.Rows {
		v := r[i]
		if strings.TrimSpace(v) == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]summary.ValueCount, len(order))
	for j, v := range order {
		out[j] = summary.ValueCount{Value: v, Count: counts[v]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out, true
}

// TruncateLabel cuts s to width runes and appends "..." when it is longer.
func TruncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "..."
}

// SumMean returns the total and the mean of vals; the mean of nothing is 0.
func SumMean(vals []float64) (sum, mean float64) {
	for _, v := range vals {
		sum += v
	}
	if len(vals) > 0 {
		mean = sum / float64(len(vals))
	}
	return sum, mean
}

// TopicColumns lists the topic flag columns of header in order.
func TopicColumns(header []string) []string {
	var out []string
	for _, h := range header {
		if strings.Contains(h, topicMarker) && h != freeFairColumn {
			out = append(out, h)
		}
	}
	return out
}

var titleCaser = cases.Title(language.English)

// TopicName turns "climate_change_topic_illuminating" into "Climate Change".
func TopicName(col string) string {
	name := strings.ReplaceAll(strings.ReplaceAll(col, topicSuffix, ""), "_", " ")
	return titleCaser.String(name)
}

// TopicShares computes, for every topic column of the ads dataset, the mean
// flag value times 100 on each platform. A platform lacking the column gets 0.
func TopicShares(src Sources) []TopicShare {
	if src.Ads == nil {
		return nil
	}
	var out []TopicShare
	for _, c := range TopicColumns(src.Ads.Header) {
		out = append(out, TopicShare{
			Topic:   TopicName(c),
			Ads:     percent(src.Ads, c),
			Posts:   percent(src.Posts, c),
			Twitter: percent(src.Twitter, c),
		})
	}
	return out
}

func percent(t *dataset.Table, col string) float64 {
	if t == nil {
		return 0
	}
	vals, _ := NumericColumn(t, col)
	_, mean := SumMean(vals)
	return mean * 100
}

func rows(t *dataset.Table) int {
	if t == nil {
		return 0
	}
	return t.TotalRows
}

func platformLabel(name string, t *dataset.Table) string {
	return fmt.Sprintf("%s (%s)", name, humanize.Comma(int64(rows(t))))
}

// Money formats an amount as whole dollars with thousands separators.
func Money(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}
