package filter

import (
	"regexp"
	"strconv"
)

// Levels use the same vocabulary as LinkedIn's job criteria block.
const (
	LevelInternship = "Internship"
	LevelEntry      = "Entry level"
	LevelAssociate  = "Associate"
	LevelMidSenior  = "Mid-Senior level"
	LevelDirector   = "Director"
	LevelExecutive  = "Executive"
)

var seniorityRules = []struct {
	level string
	re    *regexp.Regexp
}{
	{LevelExecutive, regexp.MustCompile(`\b(cto|ceo|cio|chief\s+\w+\s+officer)\b`)},
	{LevelDirector, regexp.MustCompile(`\b(director|head\s+of|vp|vice\s+president)\b`)},
	{LevelInternship, regexp.MustCompile(`\b(intern|internship|trainee|werkstudent|praktikum)\b`)},
	{LevelMidSenior, regexp.MustCompile(`\b(senior|sr|lead|principal|staff|architect|manager)\b`)},
	{LevelEntry, regexp.MustCompile(`\b(junior|jr|fresher|entry[\s-]?level|graduate|new\s+grad)\b`)},
	{LevelAssociate, regexp.MustCompile(`\b(associate|mid[\s-]?level|intermediate)\b`)},
}

var experienceRegex = regexp.MustCompile(`\b(\d{1,2})\s*(\+|plus)?\s*(years?|yrs?|yoe)\b`)

// InferSeniority guesses a seniority level from a posting title first and
// the required years of experience in the description second. It returns ""
// when neither gives a signal.
func InferSeniority(title, description string) string {
	normTitle := NormalizeText(title)
	for _, rule := range seniorityRules {
		if rule.re.MatchString(normTitle) {
			return rule.level
		}
	}

	match := experienceRegex.FindStringSubmatch(NormalizeText(description))
	if match == nil {
		return ""
	}
	years, err := strconv.Atoi(match[1])
	if err != nil {
		return ""
	}
	switch {
	case years >= 5:
		return LevelMidSenior
	case years >= 3:
		return LevelAssociate
	default:
		return LevelEntry
	}
}
