package model

import "strings"

var complexityKeywords = []string{"implement", "design", "develop", "create", "build", "optimize", "analyze", "research"}

// EstimatePoints suggests an effort score from the task text: 5 base points,
// one more per 10 characters (capped at 10) and 10 for complexity keywords.
func EstimatePoints(text string) int {
	points := 5
	bonus := len([]rune(text)) / 10
	if bonus > 10 {
		bonus = 10
	}
	points += bonus
	lower := strings.ToLower(text)
	for _, kw := range complexityKeywords {
		if strings.Contains(lower, kw) {
			points += 10
			break
		}
	}
	return points
}
