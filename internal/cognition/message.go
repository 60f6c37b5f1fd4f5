package cognition

import (
	"fmt"
	"math"
	"strings"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// composeMessage summarizes an alert for the clinician, for example
// "media cognitive deviation: memory -33% (0.90 -> 0.60)".
func composeMessage(sev cognitive.Severity, devs []cognitive.Deviation) string {
	if len(devs) == 0 {
		return fmt.Sprintf("%s cognitive deviation from baseline", sev)
	}
	parts := make([]string, 0, len(devs))
	for _, d := range devs {
		parts = append(parts, fmt.Sprintf("%s -%.0f%% (%.2f -> %.2f)",
			d.Metric, math.Abs(d.Percentage)*100, d.BaselineValue, d.CurrentValue))
	}
	return fmt.Sprintf("%s cognitive deviation: %s", sev, strings.Join(parts, ", "))
}

var severityAdvice = map[cognitive.Severity]string{
	cognitive.SeverityBaja:    "Keep monitoring; review the trend at the next scheduled session.",
	cognitive.SeverityMedia:   "Schedule a follow-up assessment within two weeks.",
	cognitive.SeverityAlta:    "Contact the caregiver and schedule a clinical evaluation this week.",
	cognitive.SeverityCritica: "Contact the patient and caregiver today and consider an urgent evaluation.",
}

var metricAdvice = map[cognitive.Metric]string{
	cognitive.MetricCoherence:   "Review discourse coherence in the recorded session.",
	cognitive.MetricClarity:     "Check for speech or articulation changes affecting clarity.",
	cognitive.MetricMemory:      "Run a focused memory screening (recall and recognition tasks).",
	cognitive.MetricOrientation: "Assess temporal and spatial orientation.",
	cognitive.MetricReasoning:   "Evaluate executive function and reasoning tasks.",
}

// recommendationsFor returns severity-level advice followed by one entry per
// affected metric, in deviation order.
func recommendationsFor(sev cognitive.Severity, devs []cognitive.Deviation) []string {
	recs := []string{}
	if advice, ok := severityAdvice[sev]; ok {
		recs = append(recs, advice)
	}
	for _, d := range devs {
		if advice, ok := metricAdvice[d.Metric]; ok {
			recs = append(recs, advice)
		}
	}
	return recs
}
