package quiz

import (
	"testing"

	quizModels "learnhub/models/quiz"

	"github.com/stretchr/testify/assert"
)

func gradedSet(section string, n, correct int) []Graded {
	out := make([]Graded, n)
	for i := range out {
		out[i] = Graded{QuestionID: uint(i + 1), Section: section, Points: 1, Correct: i < correct}
	}
	return out
}

func TestSimpleScorer(t *testing.T) {
	tests := []struct {
		name    string
		graded  []Graded
		max     float64
		want    float64
		correct int
	}{
		{"three of four", gradedSet("", 4, 3), 100, 75, 3},
		{"all correct", gradedSet("", 7, 7), 10, 10, 7},
		{"none correct", gradedSet("", 5, 0), 100, 0, 0},
		{"rounds to two places", gradedSet("", 3, 1), 100, 33.33, 1},
		{"two of three out of ten", gradedSet("", 3, 2), 10, 6.67, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleScorer{}.Score(tt.graded, tt.max)
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.correct, got.CorrectCount)
			assert.Equal(t, len(tt.graded), got.Total)
			assert.Nil(t, got.SectionScores)
		})
	}
}

func TestSimpleScorerWeightsByPoints(t *testing.T) {
	graded := []Graded{
		{QuestionID: 1, Points: 3, Correct: true},
		{QuestionID: 2, Points: 1, Correct: false},
	}
	assert.Equal(t, 75.0, SimpleScorer{}.Score(graded, 100).Score)

	zeroPoints := []Graded{{QuestionID: 1, Correct: true}, {QuestionID: 2}}
	assert.Equal(t, 50.0, SimpleScorer{}.Score(zeroPoints, 100).Score)
}

func TestSectionedScorer(t *testing.T) {
	graded := append(gradedSet(quizModels.SectionListening, 6, 3), gradedSet(quizModels.SectionReading, 4, 2)...)

	got := SectionedScorer{}.Score(graded, 100)
	assert.Equal(t, 50.0, got.Score)
	assert.Equal(t, 5, got.CorrectCount)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, map[string]float64{
		quizModels.SectionListening: 25,
		quizModels.SectionReading:   25,
	}, got.SectionScores)
}

func TestSectionedScorerExtremes(t *testing.T) {
	all := append(gradedSet(quizModels.SectionListening, 3, 3), gradedSet(quizModels.SectionReading, 5, 5)...)
	assert.Equal(t, 100.0, SectionedScorer{}.Score(all, 100).Score)

	none := append(gradedSet(quizModels.SectionListening, 3, 0), gradedSet(quizModels.SectionReading, 5, 0)...)
	assert.Equal(t, 0.0, SectionedScorer{}.Score(none, 100).Score)

	assert.Equal(t, 0.0, SectionedScorer{}.Score(nil, 100).Score)
}

func TestScorerFor(t *testing.T) {
	assert.IsType(t, SectionedScorer{}, ScorerFor(quizModels.ScoringSectioned))
	assert.IsType(t, SimpleScorer{}, ScorerFor(quizModels.ScoringSimple))
	assert.IsType(t, SimpleScorer{}, ScorerFor(""))
}
