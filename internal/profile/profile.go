// Package profile defines the veteran profile consumed by the triage engine,
// plus a registry of built-in sample profiles used by the demo runner.
package profile

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultComfortLevel is applied when ComfortLevelPeerSupport is unset.
	DefaultComfortLevel = 3
	// DefaultPrivacy is applied when PrivacySettings is empty.
	DefaultPrivacy = "Private"
)

// Profile describes an individual's background and current wellness state.
// It is read-only input to the engine.
type Profile struct {
	// Basic info
	FullName     string `json:"full_name" yaml:"full_name"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty" yaml:"profile_photo,omitempty"`

	// Military history
	BranchOfService   string `json:"branch_of_service,omitempty" yaml:"branch_of_service,omitempty"`
	RankAtDischarge   string `json:"rank_at_discharge,omitempty" yaml:"rank_at_discharge,omitempty"`
	MOSJobTitle       string `json:"mos_job_title,omitempty" yaml:"mos_job_title,omitempty"`
	YearsOfService    int    `json:"years_of_service,omitempty" yaml:"years_of_service,omitempty"`
	DischargeStatus   string `json:"discharge_status,omitempty" yaml:"discharge_status,omitempty"`
	DischargeDate     string `json:"discharge_date,omitempty" yaml:"discharge_date,omitempty"`
	DeploymentHistory string `json:"deployment_history,omitempty" yaml:"deployment_history,omitempty"`

	// Location & housing
	ZipCode           string `json:"zip_code,omitempty" yaml:"zip_code,omitempty"`
	City              string `json:"city,omitempty" yaml:"city,omitempty"`
	HousingStatus     string `json:"housing_status,omitempty" yaml:"housing_status,omitempty"`
	WillingToRelocate bool   `json:"willing_to_relocate,omitempty" yaml:"willing_to_relocate,omitempty"`

	// Mental health & wellness
	ReceivingMentalHealthSupport bool `json:"receiving_mental_health_support,omitempty" yaml:"receiving_mental_health_support,omitempty"`
	SleepIssues                  bool `json:"sleep_issues,omitempty" yaml:"sleep_issues,omitempty"`
	SubstanceUse                 bool `json:"substance_use,omitempty" yaml:"substance_use,omitempty"`
	ComfortLevelPeerSupport      int  `json:"comfort_level_peer_support,omitempty" yaml:"comfort_level_peer_support,omitempty"`
	DailyWellnessCheckins        bool `json:"daily_wellness_checkins,omitempty" yaml:"daily_wellness_checkins,omitempty"`
	MoodTrackerOptIn             bool `json:"mood_tracker_optin,omitempty" yaml:"mood_tracker_optin,omitempty"`

	// Goals & interests
	LookingFor       []string `json:"looking_for,omitempty" yaml:"looking_for,omitempty"`
	CareerInterests  []string `json:"career_interests,omitempty" yaml:"career_interests,omitempty"`
	WillingToMentor  bool     `json:"willing_to_mentor,omitempty" yaml:"willing_to_mentor,omitempty"`
	TopicsOfInterest []string `json:"topics_of_interest,omitempty" yaml:"topics_of_interest,omitempty"`

	// Engagement
	ConsentAnonymizedData bool   `json:"consent_anonymized_data,omitempty" yaml:"consent_anonymized_data,omitempty"`
	EmergencyContact      string `json:"emergency_contact,omitempty" yaml:"emergency_contact,omitempty"`
	PrivacySettings       string `json:"privacy_settings,omitempty" yaml:"privacy_settings,omitempty"`
	TwoFactorAuth         bool   `json:"two_factor_auth,omitempty" yaml:"two_factor_auth,omitempty"`
	DD214Uploaded         bool   `json:"dd214_uploaded,omitempty" yaml:"dd214_uploaded,omitempty"`
	ResumeUploaded        bool   `json:"resume_uploaded,omitempty" yaml:"resume_uploaded,omitempty"`
}

// WithDefaults returns a copy of p with unset optional fields defaulted.
func (p Profile) WithDefaults() Profile {
	if p.ComfortLevelPeerSupport == 0 {
		p.ComfortLevelPeerSupport = DefaultComfortLevel
	}
	if p.PrivacySettings == "" {
		p.PrivacySettings = DefaultPrivacy
	}
	return p
}

// employmentEntries are the looking_for values that signal a job search.
var employmentEntries = []string{"jobs", "job", "employment"}

// SeeksEmployment reports whether any LookingFor entry is an employment
// request. Matching is case-insensitive and ignores surrounding whitespace.
func (p Profile) SeeksEmployment() bool {
	for _, v := range p.LookingFor {
		if slices.Contains(employmentEntries, strings.ToLower(strings.TrimSpace(v))) {
			return true
		}
	}
	return false
}

// Validate checks the fields the engine cannot work without.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("profile: full_name is required")
	}
	if p.ComfortLevelPeerSupport < 0 || p.ComfortLevelPeerSupport > 5 {
		return fmt.Errorf("profile: comfort_level_peer_support %d out of range [1, 5]", p.ComfortLevelPeerSupport)
	}
	if p.YearsOfService < 0 {
		return fmt.Errorf("profile: years_of_service must not be negative")
	}
	return nil
}

// Parse decodes a YAML or JSON profile document.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p.WithDefaults(), nil
}

// LoadFile reads and decodes the profile file at path.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Parse(data)
}

// builtins is the registry of sample profiles keyed by name.
var builtins = map[string]Profile{
	"john-smith": {
		FullName:                     "John Smith",
		Email:                        "john.smith@email.com",
		BranchOfService:              "Army",
		RankAtDischarge:              "E-5",
		MOSJobTitle:                  "Infantry",
		YearsOfService:               8,
		DischargeStatus:              "Honorable",
		DischargeDate:                "2024-03-15",
		City:                         "Washington",
		ZipCode:                      "20001",
		HousingStatus:                "Rent",
		ReceivingMentalHealthSupport: true,
		SleepIssues:                  true,
		ComfortLevelPeerSupport:      3,
		LookingFor:                   []string{"Jobs", "Therapy"},
		TopicsOfInterest:             []string{"PTSD", "resume help", "anxiety"},
	},
	"sarah-johnson": {
		FullName:                "Sarah Johnson",
		Email:                   "sarah.j@email.com",
		BranchOfService:         "Navy",
		RankAtDischarge:         "O-3",
		MOSJobTitle:             "Intelligence Officer",
		YearsOfService:          12,
		DischargeStatus:         "Honorable",
		DischargeDate:           "2020-08-20",
		City:                    "Arlington",
		ZipCode:                 "22201",
		HousingStatus:           "Own",
		ComfortLevelPeerSupport: 5,
		LookingFor:              []string{"All"},
		CareerInterests:         []string{"Technology", "Leadership", "Consulting"},
		TopicsOfInterest:        []string{"community events", "volunteer", "mentoring"},
		WillingToMentor:         true,
		DD214Uploaded:           true,
		ResumeUploaded:          true,
	},
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the named built-in profile or an error if the name is unknown.
// The returned profile has defaults applied and shares no slices with the
// registry.
func Load(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	p.LookingFor = slices.Clone(p.LookingFor)
	p.CareerInterests = slices.Clone(p.CareerInterests)
	p.TopicsOfInterest = slices.Clone(p.TopicsOfInterest)
	return p.WithDefaults(), nil
}
