package summary

import (
	"fmt"
	"strconv"
	"strings"
)

// Render returns the report in the given format: "text" (default) or "markdown".
func (r *Report) Render(format string) (string, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	if f == FormatMarkdown {
		return r.Markdown(), nil
	}
	return r.Text(), nil
}

// Report formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// NormalizeFormat maps a format name or alias to FormatText or FormatMarkdown.
// The empty string means text.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text|markdown)", format)
	}
}

// Text renders the fixed-width console report.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n===== PROCESSING FILE: %s =====\n", r.Path)
	writeStats(&b, r.Overall)
	for _, g := range r.Groupings {
		if g.Skipped() {
			continue
		}
		if g.Limit > 0 {
			fmt.Fprintf(&b, "\n=== Grouped by [%s] (first %d groups) ===\n", strings.Join(g.Columns, ", "), g.Limit)
		} else {
			fmt.Fprintf(&b, "\n=== Grouped by [%s] (all %d groups) ===\n", strings.Join(g.Columns, ", "), g.Total)
		}
		for _, grp := range g.Groups {
			fmt.Fprintf(&b, "\n-- %s --\n", g.Label(grp.Key))
			writeStats(&b, grp.Summary)
		}
		if g.Truncated {
			b.WriteString("... truncated ...\n")
		}
	}
	for _, n := range r.Notes {
		fmt.Fprintf(&b, "\nNote: %s\n", n)
	}
	return b.String()
}

// writeStats prints numeric columns first, then categorical ones.
func writeStats(b *strings.Builder, s *Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(b, "\n--- Stats: %s ---\n", s.Title)
	for _, c := range s.Numeric() {
		n := c.Numeric
		fmt.Fprintf(b, "%-30scount=%6d  mean=%10.2f  min=%10.2f  max=%10.2f  std=%10.2f\n",
			c.Name, n.Count, n.Mean, n.Min, n.Max, n.Std)
	}
	for _, c := range s.Categorical() {
		fmt.Fprintf(b, "%-30s unique=%6d top5=%s\n", c.Name, c.Categorical.Unique, formatTop(c.Categorical.Top))
	}
}

func formatTop(top []ValueCount) string {
	parts := make([]string, len(top))
	for i, vc := range top {
		parts[i] = fmt.Sprintf("(%s, %d)", strconv.Quote(vc.Value), vc.Count)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Rows < r.TotalRows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.TotalRows, r.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	if r.Engine != "" {
		b.WriteString(fmt.Sprintf("Engine: %s\n", r.Engine))
	}
	if r.Overall != nil {
		b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Overall.Columns)))
		b.WriteString("[SCHEMA]\n")
		writeSchema(&b, r.Overall, "")
	}
	for _, g := range r.Groupings {
		if g.Skipped() {
			b.WriteString(fmt.Sprintf("\n[GROUP-BY %s]\n- skipped: missing column(s) %s\n", strings.Join(g.Columns, ", "), strings.Join(g.Missing, ", ")))
			continue
		}
		b.WriteString(fmt.Sprintf("\n[GROUP-BY %s]\n", strings.Join(g.Columns, ", ")))
		for _, grp := range g.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", safeVal(g.Label(grp.Key)), grp.Rows))
			writeSchema(&b, grp.Summary, "  ")
		}
		if g.Truncated {
			b.WriteString(fmt.Sprintf("- ... %d more groups not shown\n", g.Total-len(g.Groups)))
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeSchema(b *strings.Builder, s *Summary, indent string) {
	for _, c := range s.Columns {
		b.WriteString(fmt.Sprintf("%s- %s: %s", indent, safeName(c.Name), c.Kind))
		switch c.Kind {
		case KindNumeric:
			n := c.Numeric
			b.WriteString(fmt.Sprintf(" (n=%d) — min %.4g, max %.4g, mean %.4g, std %.4g", n.Count, n.Min, n.Max, n.Mean, n.Std))
		case KindCategorical:
			b.WriteString(" — top: ")
			for i, kv := range c.Categorical.Top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			b.WriteString(fmt.Sprintf("; unique=%d", c.Categorical.Unique))
		}
		b.WriteString("\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
