package telegram

import (
	"fmt"
	"strings"

	"go-upwork-relay/internal/scraper"
)

const (
	// BaseURL resolves relative job links.
	BaseURL   = "https://www.upwork.com"
	maxSkills = 5
)

// FormatJob renders a job as a Telegram Markdown message. The layout is
// consumed downstream and must stay byte-for-byte stable.
func FormatJob(job scraper.Job) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("💼 **%s**", job.Title),
		"",
		fmt.Sprintf("💰 **Budget:** %s", job.Budget),
		fmt.Sprintf("⏰ **Posted:** %s", job.Posted),
		fmt.Sprintf("🎯 **Level:** %s", job.ExperienceLevel),
		fmt.Sprintf("📅 **Duration:** %s", job.Duration),
		fmt.Sprintf("📍 **Location:** %s", job.Location),
		"",
	)

	payment := "❌"
	if job.PaymentVerified {
		payment = "✅"
	}
	lines = append(lines,
		fmt.Sprintf("👤 **Client:** %s Payment %s spent, Rating: %s", payment, job.ClientSpent, job.ClientRating),
		"",
	)

	if len(job.Skills) > 0 {
		skills := job.Skills
		if len(skills) > maxSkills {
			skills = skills[:maxSkills]
		}
		lines = append(lines, fmt.Sprintf("🔧 **Skills:** %s", strings.Join(skills, ", ")), "")
	}

	lines = append(lines, "📝 **Description:**", job.Description, "")

	if job.URL != "" {
		lines = append(lines, fmt.Sprintf("🔗 [View Job](%s)", ResolveURL(job.URL)))
	}

	lines = append(lines, "", "---")
	return strings.Join(lines, "\n")
}

// ResolveURL makes a site-relative link absolute.
func ResolveURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return BaseURL + u
	}
	return u
}
