package formatter

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
)

// FormatUseCaseMetrics renders the histogram family named name as a table
// of call counts and mean latency per use case and result.
func FormatUseCaseMetrics(families []*dto.MetricFamily, name string) string {
	var rows [][]string
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			h := m.GetHistogram()
			if h == nil || h.GetSampleCount() == 0 {
				continue
			}
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			mean := h.GetSampleSum() / float64(h.GetSampleCount()) * 1000
			rows = append(rows, []string{
				labels["use_case"],
				labels["result"],
				fmt.Sprintf("%d", h.GetSampleCount()),
				fmt.Sprintf("%.1fms", mean),
			})
		}
	}
	if len(rows) == 0 {
		return ""
	}
	return RenderTable([]string{"USE CASE", "RESULT", "CALLS", "MEAN"}, rows)
}
