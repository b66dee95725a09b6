// Package narrative renders a profile into the plain-text description sent
// to the reasoning service.
package narrative

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/peertriage/internal/profile"
)

// NotSpecified stands in for any empty string or list field.
const NotSpecified = "Not specified"

const (
	dateLayout  = "2006-01-02"
	daysPerYear = 365
)

// Render produces the narrative for p. The output depends only on p and now,
// so identical inputs produce byte-identical text.
func Render(p profile.Profile, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("VETERAN PROFILE ANALYSIS REQUEST\n")

	section(&sb, "BASIC INFORMATION")
	field(&sb, "Name", text(p.FullName))
	field(&sb, "Contact", text(p.Email))

	section(&sb, "MILITARY SERVICE")
	field(&sb, "Branch", text(p.BranchOfService))
	field(&sb, "Rank at Discharge", text(p.RankAtDischarge))
	field(&sb, "MOS/Job", text(p.MOSJobTitle))
	field(&sb, "Years of Service", fmt.Sprint(p.YearsOfService))
	field(&sb, "Discharge Status", text(p.DischargeStatus))
	discharge := text(p.DischargeDate)
	if r := Recency(p.DischargeDate, now); r != "" {
		discharge += " " + r
	}
	field(&sb, "Discharge Date", discharge)
	field(&sb, "Deployment History", text(p.DeploymentHistory))

	section(&sb, "CURRENT SITUATION")
	field(&sb, "Location", text(p.City)+", "+text(p.ZipCode))
	field(&sb, "Housing Status", text(p.HousingStatus))
	field(&sb, "Willing to Relocate", yesNo(p.WillingToRelocate))

	section(&sb, "MENTAL HEALTH & WELLNESS")
	field(&sb, "Currently Receiving Mental Health Support", yesNo(p.ReceivingMentalHealthSupport))
	field(&sb, "Sleep Issues", yesNo(p.SleepIssues))
	field(&sb, "Substance Use Issues", yesNo(p.SubstanceUse))
	field(&sb, "Comfort Level with Peer Support (1-5)", fmt.Sprint(p.ComfortLevelPeerSupport))
	field(&sb, "Daily Wellness Check-ins", optIn(p.DailyWellnessCheckins))
	field(&sb, "Mood Tracker", optIn(p.MoodTrackerOptIn))

	section(&sb, "GOALS & INTERESTS")
	field(&sb, "Looking For", list(p.LookingFor))
	field(&sb, "Career Interests", list(p.CareerInterests))
	field(&sb, "Willing to Mentor Others", yesNo(p.WillingToMentor))
	field(&sb, "Topics of Interest", list(p.TopicsOfInterest))

	section(&sb, "ENGAGEMENT INDICATORS")
	field(&sb, "Privacy Settings", text(p.PrivacySettings))
	field(&sb, "DD-214 Uploaded", yesNo(p.DD214Uploaded))
	field(&sb, "Resume Uploaded", yesNo(p.ResumeUploaded))
	field(&sb, "Consent to Share Data", yesNo(p.ConsentAnonymizedData))
	field(&sb, "Emergency Contact Provided", yesNo(p.EmergencyContact != ""))

	return strings.TrimRight(sb.String(), "\n")
}

// Recency describes how long ago date (YYYY-MM-DD) was relative to now.
// It returns "" when date is empty, unparsable, or in the future.
func Recency(date string, now time.Time) string {
	if date == "" {
		return ""
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), now.Location())
	if err != nil {
		return ""
	}
	elapsed := now.Sub(d)
	if elapsed < 0 {
		return ""
	}
	days := int(elapsed.Hours() / 24)
	if days < daysPerYear {
		return fmt.Sprintf("Recently discharged (%d days ago)", days)
	}
	return fmt.Sprintf("Discharged %d years ago", days/daysPerYear)
}

func section(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "\n=== %s ===\n", title)
}

func field(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "%s: %s\n", label, value)
}

func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

func list(items []string) string {
	if len(items) == 0 {
		return NotSpecified
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func optIn(b bool) string {
	if b {
		return "Opted in"
	}
	return "Not opted in"
}
