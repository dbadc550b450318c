package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/stats"
)

func records(percentages ...int) []model.AttemptRecord {
	out := make([]model.AttemptRecord, len(percentages))
	for i, p := range percentages {
		out[i] = model.AttemptRecord{
			Score:          p,
			TotalQuestions: 100,
			Percentage:     p,
			Timestamp:      "2026-01-02T15:04:05Z",
			AttemptNumber:  i + 1,
		}
	}
	return out
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, stats.Summary{}, stats.Summarize(nil))
}

func TestSummarize(t *testing.T) {
	summary := stats.Summarize(records(50, 80, 65))

	assert.Equal(t, 3, summary.Attempts)
	assert.Equal(t, 65, summary.AverageScore)
	assert.Equal(t, 80, summary.BestScore)
	assert.Equal(t, 65, summary.LastScore)
}

func TestSummarize_AverageRoundsHalfUp(t *testing.T) {
	// (60+61)/2 = 60.5 rounds to 61.
	assert.Equal(t, 61, stats.Summarize(records(60, 61)).AverageScore)
}

func TestSummarize_BestMatchesAnElement(t *testing.T) {
	history := records(42, 97, 13)
	summary := stats.Summarize(history)

	found := false
	for _, record := range history {
		assert.LessOrEqual(t, record.Percentage, summary.BestScore)
		if record.Percentage == summary.BestScore {
			found = true
		}
	}
	assert.True(t, found, "best score must equal some element")
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name        string
		percentages []int
		want        stats.TrendClass
	}{
		{"empty", nil, stats.TrendNeutral},
		{"single", []int{50}, stats.TrendNeutral},
		{"improving", []int{50, 70}, stats.TrendImproving},
		{"declining", []int{70, 50}, stats.TrendDeclining},
		{"stable", []int{60, 65}, stats.TrendStable},
		{"exactly ten is stable", []int{50, 60}, stats.TrendStable},
		{"window ignores old attempts", []int{10, 60, 64, 65}, stats.TrendStable},
		{"window of three", []int{90, 40, 45, 80}, stats.TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := stats.Trend(records(tt.percentages...))
			assert.Equal(t, tt.want, info.Trend)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		percentage int
		level      string
		safety     string
	}{
		{100, "Excellent", "SAFE"},
		{90, "Excellent", "SAFE"},
		{89, "Very Good", "SAFE"},
		{80, "Very Good", "SAFE"},
		{79, "Good", "MOSTLY SAFE"},
		{70, "Good", "MOSTLY SAFE"},
		{69, "Fair", "CAUTION"},
		{60, "Fair", "CAUTION"},
		{59, "Needs Improvement", "NOT SAFE"},
		{0, "Needs Improvement", "NOT SAFE"},
	}

	for _, tt := range tests {
		rating := stats.Rating(tt.percentage)
		assert.Equal(t, tt.level, rating.Level, "percentage %d", tt.percentage)
		assert.Equal(t, tt.safety, rating.Safety, "percentage %d", tt.percentage)
		assert.NotEmpty(t, rating.Message)
		assert.NotEmpty(t, rating.Color)
	}
}

func TestChartPoints(t *testing.T) {
	points := stats.ChartPoints(records(50, 75))

	require.Len(t, points, 2)
	assert.Equal(t, "#1", points[0].Name)
	assert.Equal(t, 50, points[0].Score)
	assert.Equal(t, "#2", points[1].Name)
	assert.Equal(t, 75, points[1].Score)
	assert.Equal(t, "2026-01-02T15:04:05Z", points[0].Timestamp)
}
