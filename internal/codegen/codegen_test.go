package codegen_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/folio/internal/codegen"
	"github.com/garnizeh/folio/pkg/models"
)

func mustFile(t *testing.T, kind models.Kind) codegen.File {
	t.Helper()
	f, err := codegen.FileFor(kind)
	if err != nil {
		t.Fatalf("FileFor(%s): %v", kind, err)
	}
	return f
}

func sampleProjects() []models.Project {
	return []models.Project{
		{
			ID:               "acme-portal",
			Type:             models.ProjectProfessional,
			CompanyName:      `ACME "Rockets" Inc.`,
			Category:         []string{"Web", "Backend"},
			ShortDescription: "Line one\nline two\ttabbed",
			WebsiteLink:      "https://acme.example",
			TechStack:        []string{"Go", "PostgreSQL"},
			StartDate:        models.NewDate(2023, time.March, 1),
			EndDate:          models.NewDate(2024, time.January, 31),
			CompanyLogoImg:   "/logos/acme.png",
			DescriptionDetails: models.DescriptionDetails{
				Paragraphs: []string{"Built the customer portal — end to end.", "Ünïcödé ✓ 日本語"},
				Bullets:    []string{},
			},
			PagesInfoArr: []models.PageInfo{
				{Title: "Dashboard", ImgArr: []string{"/a.png", "/b.png"}, Description: "Main view"},
				{Title: "Settings", ImgArr: []string{}},
			},
		},
		{
			ID:               "side",
			Type:             models.ProjectPersonal,
			CompanyName:      "Me",
			Category:         []string{},
			ShortDescription: `back\slash`,
			TechStack:        []string{},
			StartDate:        models.NewDate(2020, time.December, 5),
			EndDate:          models.NewDate(2021, time.February, 28),
			CompanyLogoImg:   "",
			DescriptionDetails: models.DescriptionDetails{
				Paragraphs: []string{},
				Bullets:    []string{"one"},
			},
			PagesInfoArr: []models.PageInfo{},
		},
	}
}

func sampleExperiences() []models.Experience {
	return []models.Experience{
		{
			ID:           "current",
			Position:     "Staff Engineer",
			Company:      "Globex",
			Location:     "Remote",
			StartDate:    models.NewDate(2022, time.June, 1),
			EndDate:      models.MustEndDate(models.PresentSentinel),
			Description:  []string{"Leads platform work."},
			Achievements: []string{},
			Skills:       []string{"Go", "Kubernetes"},
			CompanyURL:   "https://globex.example",
		},
		{
			ID:           "previous",
			Position:     "Engineer",
			Company:      "Initech",
			Location:     "Austin, TX",
			StartDate:    models.NewDate(2019, time.January, 7),
			EndDate:      models.EndOn(models.NewDate(2022, time.May, 31)),
			Description:  []string{},
			Achievements: []string{"Shipped \"TPS\" reports"},
			Skills:       []string{},
		},
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	t.Run("projects", func(t *testing.T) {
		f := mustFile(t, models.KindProject)
		in := sampleProjects()
		src, err := codegen.RenderList(f, in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.Project](f, src)
		if err != nil {
			t.Fatalf("parse: %v\n%s", err, src)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("experience", func(t *testing.T) {
		f := mustFile(t, models.KindExperience)
		in := sampleExperiences()
		src, err := codegen.RenderList(f, in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.Experience](f, src)
		if err != nil {
			t.Fatalf("parse: %v\n%s", err, src)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("skills", func(t *testing.T) {
		f := mustFile(t, models.KindSkill)
		in := []models.Skill{
			{Name: "Go", Description: "Daily driver", Rating: 5, IconKey: "go", Category: models.CategoryCoreStack},
			{Name: "Docker", Description: "", Rating: 1, Category: models.CategoryDevOpsTools},
			{Name: "Mentoring", Description: "People first", Rating: 4},
		}
		src, err := codegen.RenderList(f, in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.Skill](f, src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("contributions", func(t *testing.T) {
		f := mustFile(t, models.KindContribution)
		in := []models.Contribution{
			{
				Repo:                    "folio",
				ContributionDescription: "Fixed `go vet` warnings\nand a \"quoted\" typo",
				RepoOwner:               "garnizeh",
				Link:                    "https://github.com/garnizeh/folio/pull/7",
				TechStack:               []string{"Go", "SQL"},
			},
			{
				Repo:                    "tapper",
				ContributionDescription: "Docs: ✓ 日本語",
				RepoOwner:               "jlrickert",
				Link:                    "https://github.com/jlrickert/tapper",
				TechStack:               []string{"Markdown"},
			},
		}
		src, err := codegen.RenderList(f, in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.Contribution](f, src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("socials", func(t *testing.T) {
		f := mustFile(t, models.KindSocial)
		in := []models.SocialLink{
			{Name: "GitHub", Username: "@ada", Icon: "icon-key:github", Link: "https://github.com/ada"},
			{Name: "Email", Username: "ada@example.com", Icon: "icon-key:mail", Link: "mailto:ada@example.com?subject=Hi%20there"},
		}
		src, err := codegen.RenderList(f, in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.SocialLink](f, src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("site", func(t *testing.T) {
		in := models.SiteConfig{
			Name:        "Folio",
			AuthorName:  "Ada",
			Username:    "ada",
			Description: "Portfolio of Ada",
			URL:         "https://ada.example",
			Links:       models.SiteLinks{Github: "https://github.com/ada"},
			Keywords:    []string{"go", "portfolio"},
		}
		src, err := codegen.RenderSite(in)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseSite(src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v", in, out)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		f := mustFile(t, models.KindContribution)
		src, err := codegen.RenderList[models.Contribution](f, nil)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		out, err := codegen.ParseList[models.Contribution](f, src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if out == nil || len(out) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", out)
		}
	})
}

func TestRenderFormat(t *testing.T) {
	f := mustFile(t, models.KindExperience)
	src, err := codegen.RenderList(f, sampleExperiences())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(src)

	for _, want := range []string{
		codegen.Header,
		"package content",
		`"time"`,
		`"github.com/garnizeh/folio/pkg/models"`,
		"var Experiences = []models.Experience{",
		`models.MustEndDate("Present")`,
		"models.EndOn(models.NewDate(2022, time.May, 31))",
		"models.NewDate(2022, time.June, 1)",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q\n%s", want, s)
		}
	}
	// omitempty strings are left out when empty
	if strings.Count(s, "CompanyURL:") != 1 {
		t.Errorf("expected CompanyURL only for the record that has one\n%s", s)
	}
	// lists are always emitted
	if strings.Count(s, "Achievements:") != 2 {
		t.Errorf("expected Achievements for every record\n%s", s)
	}

	again, err := codegen.RenderList(f, sampleExperiences())
	if err != nil {
		t.Fatalf("render again: %v", err)
	}
	if !bytes.Equal(src, again) {
		t.Fatalf("render is not deterministic")
	}
}

func TestRenderOmitsTimeImportWithoutDates(t *testing.T) {
	f := mustFile(t, models.KindSocial)
	src, err := codegen.RenderList(f, []models.SocialLink{
		{Name: "GitHub", Username: "ada", Icon: "icon-key:github", Link: "https://github.com/ada"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(src), `"time"`) {
		t.Fatalf("unexpected time import\n%s", src)
	}
}

func TestParseErrors(t *testing.T) {
	f := mustFile(t, models.KindSkill)
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "package content\nvar Skills = []models.Skill{"},
		{"missing var", "package content\nvar Other = 1\n"},
		{"unknown field", "package content\nvar Skills = []models.Skill{{Nope: \"x\"}}\n"},
		{"positional fields", "package content\nvar Skills = []models.Skill{{\"Go\", \"d\", 3, \"\", \"\"}}\n"},
		{"non-literal rating", "package content\nvar Skills = []models.Skill{{Name: \"Go\", Rating: x}}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := codegen.ParseList[models.Skill](f, []byte(tc.src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseRejectsLowercasePresent(t *testing.T) {
	f := mustFile(t, models.KindExperience)
	src := `package content

var Experiences = []models.Experience{{ID: "x", EndDate: models.MustEndDate("present")}}
`
	if _, err := codegen.ParseList[models.Experience](f, []byte(src)); err == nil {
		t.Fatalf("expected error for lowercase sentinel")
	}
}

// The checked-in content files must stay parseable and valid.
func TestCheckedInContent(t *testing.T) {
	dir := filepath.Join("..", "..", "content")
	read := func(t *testing.T, kind models.Kind) (codegen.File, []byte) {
		t.Helper()
		f := mustFile(t, kind)
		src, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		return f, src
	}

	f, src := read(t, models.KindProject)
	projects, err := codegen.ParseList[models.Project](f, src)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	for _, p := range projects {
		if err := models.ValidateProject(p); err != nil {
			t.Errorf("project %s: %v", p.ID, err)
		}
	}

	f, src = read(t, models.KindExperience)
	exps, err := codegen.ParseList[models.Experience](f, src)
	if err != nil {
		t.Fatalf("experience: %v", err)
	}
	for _, e := range exps {
		if err := models.ValidateExperience(e); err != nil {
			t.Errorf("experience %s: %v", e.ID, err)
		}
	}

	f, src = read(t, models.KindSkill)
	if _, err := codegen.ParseList[models.Skill](f, src); err != nil {
		t.Fatalf("skills: %v", err)
	}
	f, src = read(t, models.KindContribution)
	if _, err := codegen.ParseList[models.Contribution](f, src); err != nil {
		t.Fatalf("contributions: %v", err)
	}
	f, src = read(t, models.KindSocial)
	if _, err := codegen.ParseList[models.SocialLink](f, src); err != nil {
		t.Fatalf("socials: %v", err)
	}
	_, src = read(t, models.KindSite)
	site, err := codegen.ParseSite(src)
	if err != nil {
		t.Fatalf("site: %v", err)
	}
	if err := models.ValidateSiteConfig(site); err != nil {
		t.Fatalf("site: %v", err)
	}
}
