package quiz

import (
	"math"

	quizModels "learnhub/models/quiz"
)

// Graded is one question after comparing the submitted answer to the key.
type Graded struct {
	QuestionID uint
	Section    string
	Points     float64
	Correct    bool
}

type Score struct {
	Score         float64
	CorrectCount  int
	Total         int
	SectionScores map[string]float64
}

// Scorer turns graded questions into a score out of maxScore.
type Scorer interface {
	Score(graded []Graded, maxScore float64) Score
}

// ScorerFor picks the strategy configured on the quiz.
func ScorerFor(mode string) Scorer {
	if mode == quizModels.ScoringSectioned {
		return SectionedScorer{}
	}
	return SimpleScorer{}
}

// SimpleScorer scales the share of earned points to the maximum.
type SimpleScorer struct{}

func (SimpleScorer) Score(graded []Graded, maxScore float64) Score {
	correct := countCorrect(graded)
	return Score{
		Score:        round2(ratio(graded) * maxScore),
		CorrectCount: correct,
		Total:        len(graded),
	}
}

// SectionedScorer gives every section an equal share of the maximum and
// scores each section on its own before summing.
type SectionedScorer struct{}

func (SectionedScorer) Score(graded []Graded, maxScore float64) Score {
	var order []string
	bySection := map[string][]Graded{}
	for _, g := range graded {
		if _, ok := bySection[g.Section]; !ok {
			order = append(order, g.Section)
		}
		bySection[g.Section] = append(bySection[g.Section], g)
	}

	out := Score{
		CorrectCount:  countCorrect(graded),
		Total:         len(graded),
		SectionScores: make(map[string]float64, len(order)),
	}
	if len(order) == 0 {
		return out
	}

	share := maxScore / float64(len(order))
	total := 0.0
	for _, section := range order {
		s := round2(ratio(bySection[section]) * share)
		out.SectionScores[section] = s
		total += s
	}
	out.Score = round2(total)
	return out
}

// ratio is earned/total points, or correct/count when no question carries points.
func ratio(graded []Graded) float64 {
	if len(graded) == 0 {
		return 0
	}
	var earned, total float64
	for _, g := range graded {
		total += g.Points
		if g.Correct {
			earned += g.Points
		}
	}
	if total <= 0 {
		return float64(countCorrect(graded)) / float64(len(graded))
	}
	return earned / total
}

func countCorrect(graded []Graded) int {
	n := 0
	for _, g := range graded {
		if g.Correct {
			n++
		}
	}
	return n
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
