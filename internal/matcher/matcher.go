// Package matcher ranks GitHub issues against a user's skill profile.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmednasr/contexthub/internal/models"
)

var appropriateLabels = map[models.KnowledgeLevel][]string{
	models.LevelBeginner:     {"good first", "beginner", "easy", "starter", "newcomer"},
	models.LevelIntermediate: {"help wanted", "enhancement", "feature"},
	models.LevelAdvanced:     {"help wanted", "complex", "refactor"},
	models.LevelExpert:       {"complex", "architecture", "performance", "security"},
}

// MatchIssuesWithProfile scores issues against profile as of now.
func MatchIssuesWithProfile(issues []models.Issue, profile models.UserProfile) []models.IssueMatchResult {
	return MatchIssuesAt(issues, profile, time.Now())
}

// MatchIssuesAt scores every issue, drops those scoring zero or less and
// returns the rest by descending score. Equal scores keep input order.
func MatchIssuesAt(issues []models.Issue, profile models.UserProfile, now time.Time) []models.IssueMatchResult {
	results := make([]models.IssueMatchResult, 0, len(issues))
	for _, issue := range issues {
		r := ScoreIssue(issue, profile, now)
		if r.MatchScore > 0 {
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results
}

// ScoreIssue computes the match score and reasons for one issue.
func ScoreIssue(issue models.Issue, profile models.UserProfile, now time.Time) models.IssueMatchResult {
	score := 0
	reasons := []string{}
	text := strings.ToLower(issue.Title + " " + issue.Body)

	var skills []string
	for _, s := range profile.Skills {
		if s != "" && strings.Contains(text, strings.ToLower(s)) {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		score += 10 * len(skills)
		reasons = append(reasons, "Matches your skills: "+strings.Join(skills, ", "))
	}

	for _, tech := range profile.TechStack {
		if tech.Name != "" && strings.Contains(text, strings.ToLower(tech.Name)) {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Matches %s (%s level)", tech.Name, tech.KnowledgeLevel))
		}
	}

	level := MaxKnowledgeLevel(profile.TechStack)
	wanted := AppropriateLabels(level)
	labelHits := 0
	goodFirst := false
	for _, l := range issue.Labels {
		name := strings.ToLower(l.Name)
		for _, w := range wanted {
			if strings.Contains(name, w) {
				labelHits++
				break
			}
		}
		if strings.Contains(name, "good") && strings.Contains(name, "first") {
			goodFirst = true
		}
	}
	if labelHits > 0 {
		score += 5 * labelHits
		reasons = append(reasons, fmt.Sprintf("Difficulty matches your level (%s)", level))
	}

	if !issue.UpdatedAt.IsZero() {
		days := DaysSince(issue.UpdatedAt, now)
		if days > 90 {
			score -= 2
		} else if days < 7 {
			score += 2
			reasons = append(reasons, "Recently active")
		}
	}

	switch {
	case issue.Comments >= 2 && issue.Comments <= 10:
		score += 3
		reasons = append(reasons, "Active discussion")
	case issue.Comments == 0:
		score++
		reasons = append(reasons, "Fresh issue")
	}

	if level == models.LevelBeginner && goodFirst {
		score += 5
		reasons = append(reasons, "Great for beginners")
	}

	return models.IssueMatchResult{
		Issue:        issue,
		MatchScore:   score,
		MatchReasons: reasons,
	}
}

// MaxKnowledgeLevel is the highest level across the tech stack. An empty
// stack counts as beginner.
func MaxKnowledgeLevel(stack []models.TechStack) models.KnowledgeLevel {
	best := models.LevelBeginner
	for _, t := range stack {
		if t.KnowledgeLevel.Rank() > best.Rank() {
			best = t.KnowledgeLevel
		}
	}
	return best
}

// AppropriateLabels returns the label substrings suited to level.
func AppropriateLabels(level models.KnowledgeLevel) []string {
	if labels, ok := appropriateLabels[level]; ok {
		return labels
	}
	return []string{"good first"}
}

// DaysSince is the number of whole or partial days between t and now.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}
