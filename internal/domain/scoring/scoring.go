// Package scoring merges individual metric values into one weighted report.
package scoring

// Metric keys in report order.
const (
	KeyAnomalyDetectionAccuracy = "anomaly_detection_accuracy"
	KeyAvgSampleAccuracy        = "avg_sample_accuracy"
	KeyCodeQuality              = "pylint"
	KeyDistance                 = "distance"
	KeyPredictionTime           = "prediction_time"
	KeyElapsedTime              = "elapsed_time"
	KeyTotal                    = "total"
)

// Metric describes one row of the score table.
type Metric struct {
	Key    string
	Name   string
	Weight float64
}

// DefaultTable returns the fixed score table. Timing rows are reported but
// carry no weight.
func DefaultTable() []Metric {
	return []Metric{
		{Key: KeyAnomalyDetectionAccuracy, Name: "Anomaly detection accuracy", Weight: 0.45},
		{Key: KeyAvgSampleAccuracy, Name: "Average sample accuracy", Weight: 0.25},
		{Key: KeyCodeQuality, Name: "Code quality", Weight: 0.1},
		{Key: KeyDistance, Name: "Distance score", Weight: 0.05},
		{Key: KeyPredictionTime, Name: "Prediction time", Weight: 0},
		{Key: KeyElapsedTime, Name: "Total elapsed time", Weight: 0},
	}
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithTable replaces the score table. Rows with an empty key are dropped.
func WithTable(table []Metric) Option {
	return func(a *Aggregator) {
		// Copy the table to avoid external modifications
		rows := make([]Metric, 0, len(table))
		for _, m := range table {
			if m.Key != "" {
				rows = append(rows, m)
			}
		}
		a.table = rows
	}
}

// Aggregator builds reports from a fixed table.
type Aggregator struct {
	table []Metric
}

// NewAggregator creates an Aggregator using DefaultTable unless overridden.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		table: DefaultTable(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Table returns a copy of the aggregator's score table.
func (a *Aggregator) Table() []Metric {
	return append([]Metric(nil), a.table...)
}

// Aggregate builds a report from metric values keyed by Metric.Key. Keys not
// in the table are ignored; missing keys count as 0.
func (a *Aggregator) Aggregate(values map[string]float64) Report {
	entries := make([]Entry, 0, len(a.table))
	var total float64
	for _, m := range a.table {
		v := values[m.Key]
		entries = append(entries, Entry{Metric: m, Value: v})
		total += v * m.Weight
	}
	return Report{entries: entries, total: total}
}

// Entry is a metric together with its value.
type Entry struct {
	Metric
	Value float64
}

// Weighted returns the entry's contribution to the total.
func (e Entry) Weighted() float64 {
	return e.Value * e.Weight
}

// Report is an immutable set of scored metrics.
type Report struct {
	entries []Entry
	total   float64
}

// Entries returns a copy of the report rows in table order.
func (r Report) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Value returns the value stored under key.
func (r Report) Value(key string) (float64, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Total returns the weighted sum of all entries.
func (r Report) Total() float64 {
	return r.total
}

// Len returns the number of entries.
func (r Report) Len() int {
	return len(r.entries)
}
