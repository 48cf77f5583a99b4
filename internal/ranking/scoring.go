package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/internradar/internal/types"
)

// Default component weights
const (
	skillsWeight     = 40.0
	interestsWeight  = 25.0
	githubWeight     = 25.0
	experienceWeight = 10.0

	totalWeight = 100.0
)

// Experience credit
const (
	experienceExactCredit   = 1.0
	experienceSynonymCredit = 0.8
	experienceNeutralCredit = 0.5
)

// experienceSynonyms maps a level to a weaker keyword that still signals fit
var experienceSynonyms = map[types.ExperienceLevel]string{
	types.ExperienceBeginner:     "entry",
	types.ExperienceIntermediate: "experience",
	types.ExperienceAdvanced:     "senior",
}

// Weights holds the maximum contribution of each scoring component.
type Weights struct {
	Skills     float64 `json:"skills" mapstructure:"skills"`
	Interests  float64 `json:"interests" mapstructure:"interests"`
	GitHub     float64 `json:"github" mapstructure:"github"`
	Experience float64 `json:"experience" mapstructure:"experience"`
}

// DefaultWeights returns the standard 40/25/25/10 split.
func DefaultWeights() Weights {
	return Weights{
		Skills:     skillsWeight,
		Interests:  interestsWeight,
		GitHub:     githubWeight,
		Experience: experienceWeight,
	}
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	return w.Skills + w.Interests + w.GitHub + w.Experience
}

// Validate checks that no weight is negative, that experience, the one
// component that always applies, carries weight, and that the weights sum to 100.
func (w Weights) Validate() error {
	if w.Skills < 0 || w.Interests < 0 || w.GitHub < 0 || w.Experience < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidInput)
	}
	if w.Experience <= 0 {
		return fmt.Errorf("%w: experience weight must be positive", ErrInvalidInput)
	}
	if math.Abs(w.Total()-totalWeight) > 1e-9 {
		return fmt.Errorf("%w: weights must sum to %v, got %v", ErrInvalidInput, totalWeight, w.Total())
	}
	return nil
}

// Scorer scores listings against profiles with a fixed set of weights.
// A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer from weights that pass Validate.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

func defaultScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// Weights returns the weights the scorer was built with.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score scores one listing against a profile using the default weights.
// signal may be nil when no external activity is available.
func Score(profile *types.UserProfile, listing *types.InternshipListing, signal *types.NormalizedActivitySignal) (*types.ScoreResult, error) {
	return defaultScorer().Score(profile, listing, signal)
}

// Score scores one listing against a profile.
func (s *Scorer) Score(profile *types.UserProfile, listing *types.InternshipListing, signal *types.NormalizedActivitySignal) (*types.ScoreResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: listing is required", ErrInvalidInput)
	}
	if strings.TrimSpace(listing.Description) == "" {
		return nil, fmt.Errorf("%w: listing %q has no description", ErrInvalidInput, listing.ID)
	}

	techStack := newTermSet(listing.TechStack)
	tags := newTermSet(listing.Tags)

	skills := computeSkillsScore(newTermSet(profile.Skills), techStack, s.weights.Skills)
	interests := computeInterestsScore(newTermSet(profile.Interests), tags, s.weights.Interests)
	github := computeGitHubScore(signal, techStack, s.weights.GitHub)
	experience := computeExperienceScore(profile.Experience, listing.Description, s.weights.Experience)

	earned := 0.0
	for _, c := range []types.ComponentScore{skills, interests, github, experience} {
		if c.Applied {
			earned += c.Score
		}
	}

	breakdown := types.Breakdown{
		types.ComponentSkills:     roundComponent(skills),
		types.ComponentInterests:  roundComponent(interests),
		types.ComponentGitHub:     roundComponent(github),
		types.ComponentExperience: roundComponent(experience),
	}

	score := 0.0
	if applicable := breakdown.AppliedWeight(); applicable > 0 {
		score = clampScore(earned / applicable * 100)
	}
	score = round2(score)

	return &types.ScoreResult{
		Score:       score,
		Breakdown:   breakdown,
		Explanation: buildExplanation(score, skills.Matched, interests.Matched, github.Matched),
	}, nil
}

// computeSkillsScore rates user skills against the listing tech stack.
// The ratio is matched skills over tech stack size, clamped to 1 since several
// user skills may match the same tech.
func computeSkillsScore(skills, techStack termSet, weight float64) types.ComponentScore {
	c := types.ComponentScore{Weight: weight}
	if len(skills) == 0 || len(techStack) == 0 {
		return c
	}
	c.Applied = true
	c.Matched = matchTerms(skills, techStack)
	c.Score = ratio(len(c.Matched), len(techStack)) * weight
	return c
}

// computeInterestsScore rates user interests against listing tags.
func computeInterestsScore(interests, tags termSet, weight float64) types.ComponentScore {
	c := types.ComponentScore{Weight: weight}
	if len(interests) == 0 || len(tags) == 0 {
		return c
	}
	c.Applied = true
	c.Matched = matchTerms(interests, tags)
	c.Score = ratio(len(c.Matched), max(len(interests), len(tags))) * weight
	return c
}

// computeGitHubScore rates the inferred GitHub tech stack against the listing tech stack.
func computeGitHubScore(signal *types.NormalizedActivitySignal, techStack termSet, weight float64) types.ComponentScore {
	c := types.ComponentScore{Weight: weight}
	if signal == nil || len(techStack) == 0 {
		return c
	}
	githubTech := newTermSet(signal.TechStack)
	if len(githubTech) == 0 {
		return c
	}
	c.Applied = true
	c.Matched = matchTerms(githubTech, techStack)
	c.Score = ratio(len(c.Matched), len(techStack)) * weight
	return c
}

// computeExperienceScore checks the listing description for the user's level keyword.
func computeExperienceScore(level types.ExperienceLevel, description string, weight float64) types.ComponentScore {
	level = types.ExperienceLevel(strings.ToLower(strings.TrimSpace(string(level)))).OrDefault()
	desc := strings.ToLower(description)

	credit := experienceNeutralCredit
	switch {
	case strings.Contains(desc, string(level)):
		credit = experienceExactCredit
	case experienceSynonyms[level] != "" && strings.Contains(desc, experienceSynonyms[level]):
		credit = experienceSynonymCredit
	}

	return types.ComponentScore{
		Weight:  weight,
		Score:   credit * weight,
		Applied: true,
	}
}

func ratio(matched, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	r := float64(matched) / float64(denominator)
	if r > 1 {
		r = 1
	}
	return r
}

func clampScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundComponent(c types.ComponentScore) types.ComponentScore {
	c.Score = round2(c.Score)
	return c
}
