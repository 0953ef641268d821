package telegram

import (
	"strings"
	"testing"

	"go-upwork-relay/internal/scraper"

	"github.com/stretchr/testify/assert"
)

func sampleJob() scraper.Job {
	return scraper.Job{
		JobID:           "~01abc",
		Title:           "Go developer",
		URL:             "/jobs/~01abc",
		Posted:          "2 hours ago",
		Budget:          "Hourly: $30-$60",
		ExperienceLevel: "Expert",
		Duration:        "1 to 3 months",
		Location:        "United States",
		PaymentVerified: true,
		ClientSpent:     "$10K+",
		ClientRating:    "4.9",
		Description:     "Build a scraper.",
		Skills:          []string{"Go", "Playwright"},
	}
}

func TestFormatJob_Full(t *testing.T) {
	want := "💼 **Go developer**\n" +
		"\n" +
		"💰 **Budget:** Hourly: $30-$60\n" +
		"⏰ **Posted:** 2 hours ago\n" +
		"🎯 **Level:** Expert\n" +
		"📅 **Duration:** 1 to 3 months\n" +
		"📍 **Location:** United States\n" +
		"\n" +
		"👤 **Client:** ✅ Payment $10K+ spent, Rating: 4.9\n" +
		"\n" +
		"🔧 **Skills:** Go, Playwright\n" +
		"\n" +
		"📝 **Description:**\n" +
		"Build a scraper.\n" +
		"\n" +
		"🔗 [View Job](https://www.upwork.com/jobs/~01abc)\n" +
		"\n" +
		"---"

	assert.Equal(t, want, FormatJob(sampleJob()))
}

func TestFormatJob_EachValueOnce(t *testing.T) {
	job := sampleJob()
	msg := FormatJob(job)

	for _, v := range []string{job.Title, job.Posted, job.Budget, job.ExperienceLevel,
		job.Duration, job.Location, job.ClientSpent, job.ClientRating, job.Description} {
		assert.Equal(t, 1, strings.Count(msg, v), "value %q", v)
	}
}

func TestFormatJob_OptionalBlocks(t *testing.T) {
	job := sampleJob()
	job.Skills = nil
	job.URL = ""
	job.PaymentVerified = false

	msg := FormatJob(job)
	assert.NotContains(t, msg, "Skills")
	assert.NotContains(t, msg, "View Job")
	assert.Contains(t, msg, "👤 **Client:** ❌ Payment")
	assert.True(t, strings.HasSuffix(msg, "Build a scraper.\n\n\n---"))
	assert.Contains(t, msg, "👤 **Client:** ❌ Payment $10K+ spent, Rating: 4.9\n\n📝 **Description:**")
}

func TestFormatJob_SkillsCappedAtFive(t *testing.T) {
	job := sampleJob()
	job.Skills = []string{"a", "b", "c", "d", "e", "f", "g"}

	msg := FormatJob(job)
	assert.Contains(t, msg, "🔧 **Skills:** a, b, c, d, e\n")
	assert.NotContains(t, msg, ", f")
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/jobs/~01", "https://www.upwork.com/jobs/~01"},
		{"https://www.upwork.com/jobs/~02", "https://www.upwork.com/jobs/~02"},
		{"jobs/~03", "jobs/~03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.in))
	}
}
