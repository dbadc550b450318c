// Package stats derives aggregate metrics from an attempt history. All
// functions are pure over the record list; storage is someone else's problem.
package stats

import (
	"math"
	"strconv"
	"time"

	"github.com/quizrun/quizrun-backend/internal/model"
)

// Summary aggregates a quiz's attempt history.
type Summary struct {
	Attempts     int `json:"attempts"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
	LastScore    int `json:"lastScore"`
}

// TrendClass classifies score movement over the recent window.
type TrendClass string

const (
	TrendNeutral   TrendClass = "neutral"
	TrendImproving TrendClass = "improving"
	TrendDeclining TrendClass = "declining"
	TrendStable    TrendClass = "stable"
)

// TrendInfo is a trend classification with its display message and color.
type TrendInfo struct {
	Trend   TrendClass `json:"trend"`
	Message string     `json:"message"`
	Color   string     `json:"color,omitempty"`
}

// RatingInfo is the qualitative tier for a single percentage score.
type RatingInfo struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Safety  string `json:"safety"`
	Color   string `json:"color"`
	Emoji   string `json:"emoji"`
}

// ChartPoint is one plottable attempt for trend charts.
type ChartPoint struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"`
}

// Summarize computes attempt count, population-mean average (rounded half
// up), best and last percentage. An empty history yields all zeros.
func Summarize(history []model.AttemptRecord) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	sum, best := 0, 0
	for _, record := range history {
		sum += record.Percentage
		if record.Percentage > best {
			best = record.Percentage
		}
	}

	return Summary{
		Attempts:     len(history),
		AverageScore: int(math.Round(float64(sum) / float64(len(history)))),
		BestScore:    best,
		LastScore:    history[len(history)-1].Percentage,
	}
}

// Trend classifies the last-three-attempts window: improvement beyond 10
// points is improving, a drop beyond 10 points declining, anything else
// stable. Fewer than two attempts is neutral.
func Trend(history []model.AttemptRecord) TrendInfo {
	if len(history) < 2 {
		return TrendInfo{
			Trend:   TrendNeutral,
			Message: "Complete more attempts to see your trend.",
		}
	}

	window := history
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	improvement := window[len(window)-1].Percentage - window[0].Percentage

	switch {
	case improvement > 10:
		return TrendInfo{
			Trend:   TrendImproving,
			Message: "Great progress! Keep it up!",
			Color:   "#4caf50",
		}
	case improvement < -10:
		return TrendInfo{
			Trend:   TrendDeclining,
			Message: "Your scores are declining. Take a break and review.",
			Color:   "#f44336",
		}
	default:
		return TrendInfo{
			Trend:   TrendStable,
			Message: "Your performance is stable.",
			Color:   "#2196f3",
		}
	}
}

// Rating maps a percentage onto five advisory tiers. Boundaries are
// inclusive on each tier's lower bound.
func Rating(percentage int) RatingInfo {
	switch {
	case percentage >= 90:
		return RatingInfo{
			Level:   "Excellent",
			Message: "Outstanding! You are definitely safe to continue to the next topic.",
			Safety:  "SAFE",
			Color:   "#4caf50",
			Emoji:   "🌟",
		}
	case percentage >= 80:
		return RatingInfo{
			Level:   "Very Good",
			Message: "Great job! You have a strong understanding. Safe to proceed.",
			Safety:  "SAFE",
			Color:   "#8bc34a",
			Emoji:   "✅",
		}
	case percentage >= 70:
		return RatingInfo{
			Level:   "Good",
			Message: "Good work! You can continue, but consider reviewing weak areas.",
			Safety:  "MOSTLY SAFE",
			Color:   "#ffc107",
			Emoji:   "👍",
		}
	case percentage >= 60:
		return RatingInfo{
			Level:   "Fair",
			Message: "Fair performance. Review the material before moving to the next topic.",
			Safety:  "CAUTION",
			Color:   "#ff9800",
			Emoji:   "⚠️",
		}
	default:
		return RatingInfo{
			Level:   "Needs Improvement",
			Message: "Not safe to continue yet. Please review the material and try again.",
			Safety:  "NOT SAFE",
			Color:   "#f44336",
			Emoji:   "❌",
		}
	}
}

// ChartPoints converts a history into the points a score chart plots.
func ChartPoints(history []model.AttemptRecord) []ChartPoint {
	points := make([]ChartPoint, 0, len(history))
	for _, record := range history {
		ts := record.Timestamp
		if parsed, err := time.Parse(time.RFC3339, record.Timestamp); err == nil {
			ts = parsed.UTC().Format(time.RFC3339)
		}
		points = append(points, ChartPoint{
			Name:      "#" + strconv.Itoa(record.AttemptNumber),
			Score:     record.Percentage,
			Timestamp: ts,
		})
	}
	return points
}
