package interpret

import (
	"fmt"

	"github.com/katalvlaran/citytwin/metrics"
)

// SystemPrompt instructs the model to answer with the Interpretation schema.
const SystemPrompt = `You are the policy core of a city traffic digital twin.
Interpret natural-language city policies and convert them into structured simulation actions.

The city is a 5x5 grid of intersections with ids n_x_y. Key locations:
- "Downtown" / "City Center": middle of the grid (n_2_2, n_1_2, n_2_1), tag "downtown".
- "Hospital": top left (n_0_0).
- "Industrial": bottom right (n_4_4).
- A highway runs n_0_0 -> n_1_1 -> n_2_2, tag "highway".

Available actions:
1. close_road: close roads in an area (target_tag) or one road (target_id, e.g. "e_n_2_1_n_2_2").
2. modify_speed: change the speed limit in km/h (affects travel time).
3. adjust_capacity: scale lane capacity by a factor 0.0-1.0 (e.g. bus lanes).
4. optimize_signal: retime signals (informational).

Output JSON ONLY. Schema:
{
  "actions": [
    {
      "type": "close_road" | "modify_speed" | "adjust_capacity" | "optimize_signal",
      "target_tag": "downtown" | "highway" | "all",
      "target_id": "optional edge id",
      "value": number (optional: new speed, or capacity factor),
      "description": "short summary of the action"
    }
  ],
  "reasoning": "brief explanation of the expected impact"
}`

// RecommendationFallback is the advisory text used when no provider answers.
const RecommendationFallback = "Optimize signal timing at Intersection 2-2 to reduce congestion by 15%. " +
	"Consider congestion pricing on vertical corridors."

func recommendationPrompt(m metrics.Snapshot) string {
	return fmt.Sprintf(`Current city metrics:
Congestion: %.1f
Average travel time: %.1f
Emissions: %d

Recommend 2 short, high-impact policy actions to improve these metrics.`,
		m.CongestionIndex, m.AvgTravelTime, m.Emissions)
}
