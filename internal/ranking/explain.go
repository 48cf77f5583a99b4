package ranking

import (
	"fmt"
	"strings"
)

// Explanation label thresholds
const (
	excellentThreshold = 70.0
	goodThreshold      = 50.0
	moderateThreshold  = 30.0
)

const exploratoryMessage = "This internship may help you explore new areas."

// buildExplanation creates a short human-readable reason for a score.
func buildExplanation(score float64, skills, interests, github []string) string {
	var reasons []string
	if len(skills) > 0 {
		reasons = append(reasons, fmt.Sprintf("Matches %d of your skills: %s", len(skills), strings.Join(skills, ", ")))
	}
	if len(interests) > 0 {
		reasons = append(reasons, fmt.Sprintf("Aligns with your interests in %s", strings.Join(interests, ", ")))
	}
	if len(github) > 0 {
		reasons = append(reasons, fmt.Sprintf("Your GitHub shows experience with %s", strings.Join(github, ", ")))
	}

	if len(reasons) == 0 {
		if score < moderateThreshold {
			return exploratoryMessage
		}
		return scoreLabel(score)
	}

	return scoreLabel(score) + " " + strings.Join(reasons, ". ") + "."
}

func scoreLabel(score float64) string {
	switch {
	case score >= excellentThreshold:
		return "Excellent match!"
	case score >= goodThreshold:
		return "Good match."
	case score >= moderateThreshold:
		return "Moderate match."
	default:
		return "Limited match."
	}
}
