package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashureev/saleswizz/internal/domain"
)

// Local is a deterministic in-process engine used when no external answer
// engine is configured. It looks metric and quarter mentions up in the
// granted documents only, so its answers demonstrate the same scoping the
// external engine is conditioned with. Anything it cannot match gets a
// conservative fallback answer.
type Local struct{}

var metricNames = []string{"quota", "profit", "commission", "revenue"}

// Answer implements Engine.
func (Local) Answer(_ context.Context, req Request) (*Response, error) {
	if len(req.Documents) == 0 {
		return &Response{
			Text: "I'm sorry, I can't share that sales data with you. Please refer to your manager.",
		}, nil
	}

	question := strings.ToLower(req.Question)

	var metric string
	for _, m := range metricNames {
		if strings.Contains(question, m) {
			metric = m
			break
		}
	}

	var quarter domain.Quarter
	for _, q := range domain.Quarters() {
		if strings.Contains(question, strings.ToLower(string(q))) {
			quarter = q
			break
		}
	}

	if metric == "" {
		regions := regionList(req)
		return &Response{
			Text: fmt.Sprintf("I can share quota, profit, commission and revenue figures for %s. Which metric are you interested in?", regions),
		}, nil
	}

	var parts []string
	for _, doc := range req.Documents {
		rec := doc.Record
		if quarter != "" && rec.Quarter != quarter {
			continue
		}
		value, ok := rec.Metric(metric)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s is $%.0f", rec.Region, rec.Quarter, metric, value))
	}

	if len(parts) == 0 {
		return &Response{
			Text: fmt.Sprintf("I don't have %s figures matching that question in the data available to you.", metric),
		}, nil
	}

	return &Response{Text: strings.Join(parts, "; ") + "."}, nil
}

func regionList(req Request) string {
	seen := make(map[domain.Region]bool)
	var regions []string
	for _, doc := range req.Documents {
		if !seen[doc.Record.Region] {
			seen[doc.Record.Region] = true
			regions = append(regions, string(doc.Record.Region))
		}
	}
	return strings.Join(regions, ", ")
}
