package scoring

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	valueFormat   = "%.6f"
	summaryFormat = "%-26s: %10.6f\n"
	totalName     = "Total score"
)

// WriteScores writes one "key: value" line per entry followed by the total.
func (r Report) WriteScores(w io.Writer) error {
	for _, e := range r.entries {
		if _, err := fmt.Fprintf(w, "%s: "+valueFormat+"\n", e.Key, e.Value); err != nil {
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
	}
	if _, err := fmt.Fprintf(w, "%s: "+valueFormat+"\n", KeyTotal, r.total); err != nil {
		return fmt.Errorf("write %s: %w", KeyTotal, err)
	}
	return nil
}

// WriteSummary writes aligned "name: value" lines for human readers.
func (r Report) WriteSummary(w io.Writer) error {
	for _, e := range r.entries {
		if _, err := fmt.Fprintf(w, summaryFormat, e.Name, e.Value); err != nil {
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
	}
	if _, err := fmt.Fprintf(w, summaryFormat, totalName, r.total); err != nil {
		return fmt.Errorf("write %s: %w", KeyTotal, err)
	}
	return nil
}

// Table renders the report as a terminal table.
func (r Report) Table() string {
	w := r.writer()
	w.SetStyle(table.StyleLight)
	return w.Render()
}

// HTML renders the report as an HTML table.
func (r Report) HTML() string {
	return r.writer().RenderHTML()
}

func (r Report) writer() table.Writer {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"Metric", "Key", "Value", "Weight", "Weighted"})
	for _, e := range r.entries {
		w.AppendRow(table.Row{
			e.Name,
			e.Key,
			fmt.Sprintf(valueFormat, e.Value),
			fmt.Sprintf("%.2f", e.Weight),
			fmt.Sprintf(valueFormat, e.Weighted()),
		})
	}
	w.AppendFooter(table.Row{totalName, KeyTotal, "", "", fmt.Sprintf(valueFormat, r.total)})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return w
}
