package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_AllBuiltins(t *testing.T) {
	for _, name := range Names() {
		p, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q) error: %v", name, err)
			continue
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Load(%q) returned invalid profile: %v", name, err)
		}
		if p.City == "" {
			t.Errorf("Load(%q).City is empty", name)
		}
	}
	if got := len(Names()); got != 2 {
		t.Errorf("len(Names()) = %d, want 2", got)
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") expected error, got nil")
	}
}

func TestLoad_ReturnsIndependentCopy(t *testing.T) {
	p, err := Load("john-smith")
	if err != nil {
		t.Fatal(err)
	}
	p.LookingFor[0] = "mutated"
	again, _ := Load("john-smith")
	if again.LookingFor[0] != "Jobs" {
		t.Errorf("registry was mutated through a loaded profile: %q", again.LookingFor[0])
	}
}

func TestWithDefaults(t *testing.T) {
	p := Profile{FullName: "A"}.WithDefaults()
	if p.ComfortLevelPeerSupport != DefaultComfortLevel {
		t.Errorf("ComfortLevelPeerSupport = %d, want %d", p.ComfortLevelPeerSupport, DefaultComfortLevel)
	}
	if p.PrivacySettings != DefaultPrivacy {
		t.Errorf("PrivacySettings = %q, want %q", p.PrivacySettings, DefaultPrivacy)
	}

	set := Profile{FullName: "A", ComfortLevelPeerSupport: 5, PrivacySettings: "Public"}.WithDefaults()
	if set.ComfortLevelPeerSupport != 5 || set.PrivacySettings != "Public" {
		t.Errorf("WithDefaults overwrote explicit values: %+v", set)
	}
}

func TestSeeksEmployment(t *testing.T) {
	cases := []struct {
		lookingFor []string
		want       bool
	}{
		{nil, false},
		{[]string{"Therapy"}, false},
		{[]string{"Jobs"}, true},
		{[]string{"Therapy", " jobs "}, true},
		{[]string{"Employment"}, true},
		{[]string{"All"}, false},
	}
	for _, c := range cases {
		p := Profile{LookingFor: c.lookingFor}
		if got := p.SeeksEmployment(); got != c.want {
			t.Errorf("SeeksEmployment(%v) = %v, want %v", c.lookingFor, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		p       Profile
		wantErr bool
	}{
		{"ok", Profile{FullName: "A"}, false},
		{"missing name", Profile{}, true},
		{"blank name", Profile{FullName: "  "}, true},
		{"comfort too high", Profile{FullName: "A", ComfortLevelPeerSupport: 6}, true},
		{"negative years", Profile{FullName: "A", YearsOfService: -1}, true},
	}
	for _, c := range cases {
		err := c.p.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestParse_YAML(t *testing.T) {
	doc := `
full_name: Jane Doe
branch_of_service: Marines
years_of_service: 4
city: Austin
substance_use: true
looking_for:
  - Jobs
`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.FullName != "Jane Doe" || p.City != "Austin" || !p.SubstanceUse || p.YearsOfService != 4 {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.ComfortLevelPeerSupport != DefaultComfortLevel {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestParse_JSON(t *testing.T) {
	doc := `{"full_name":"Jane Doe","sleep_issues":true,"looking_for":["Jobs","Therapy"]}`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.SleepIssues || len(p.LookingFor) != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("full_name: [unterminated")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Parse([]byte("city: Austin")); err == nil {
		t.Error("expected validation error for missing full_name")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(path, []byte("full_name: File Person\ncity: Denver\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.City != "Denver" {
		t.Errorf("City = %q, want Denver", p.City)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
