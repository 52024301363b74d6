package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/folio/pkg/models"
)

func validSkill(rating int) models.Skill {
	return models.Skill{Name: "Go", Description: "systems", Rating: rating, Category: models.CategoryCoreStack}
}

func TestValidateSkill_RatingBoundaries(t *testing.T) {
	cases := []struct {
		rating  int
		wantErr bool
	}{
		{rating: 0, wantErr: true},
		{rating: 1, wantErr: false},
		{rating: 5, wantErr: false},
		{rating: 6, wantErr: true},
	}

	for _, c := range cases {
		err := models.ValidateSkill(validSkill(c.rating))
		if (err != nil) != c.wantErr {
			t.Fatalf("rating %d: wantErr=%v got %v", c.rating, c.wantErr, err)
		}
		if err == nil {
			continue
		}
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("rating %d: expected ValidationError, got %T", c.rating, err)
		}
		if len(ve.Fields) != 1 || ve.Fields[0].Field != "rating" {
			t.Fatalf("rating %d: expected only rating to be reported, got %+v", c.rating, ve.Fields)
		}
	}
}

func TestValidateSkill_UnknownCategory(t *testing.T) {
	s := validSkill(3)
	s.Category = "Hobbies"
	if err := models.ValidateSkill(s); err == nil {
		t.Fatalf("expected unknown category to fail")
	}
	s.Category = ""
	if err := models.ValidateSkill(s); err != nil {
		t.Fatalf("empty category should be allowed: %v", err)
	}
}

func TestValidateExperience_EndDate(t *testing.T) {
	base := models.Experience{
		ID:        "acme",
		Position:  "Engineer",
		Company:   "Acme",
		StartDate: models.NewDate(2022, time.March, 1),
	}

	cases := []struct {
		name    string
		end     models.EndDate
		wantErr bool
	}{
		{name: "Present", end: models.EndDate{Present: true}, wantErr: false},
		{name: "SameDay", end: models.EndOn(models.NewDate(2022, time.March, 1)), wantErr: false},
		{name: "Later", end: models.EndOn(models.NewDate(2023, time.June, 30)), wantErr: false},
		{name: "Before", end: models.EndOn(models.NewDate(2021, time.December, 31)), wantErr: true},
		{name: "Missing", end: models.EndDate{}, wantErr: true},
		{name: "Impossible", end: models.EndOn(models.NewDate(2023, time.February, 30)), wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x := base
			x.EndDate = c.end
			err := models.ValidateExperience(x)
			if (err != nil) != c.wantErr {
				t.Fatalf("wantErr=%v got %v", c.wantErr, err)
			}
		})
	}
}

func TestValidateProject_ReportsAllFields(t *testing.T) {
	err := models.ValidateProject(models.Project{Type: "Side"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"id", "type", "companyName", "shortDescription", "startDate", "endDate"}
	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Field] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Fatalf("expected field %q in %v", w, ve.Error())
		}
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	if err := models.Validate(models.KindSkill, models.Project{}); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if err := models.Validate(models.KindSkill, validSkill(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEndDateJSON(t *testing.T) {
	var x struct {
		End models.EndDate `json:"endDate"`
	}
	if err := json.Unmarshal([]byte(`{"endDate":"Present"}`), &x); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !x.End.Present {
		t.Fatalf("expected Present sentinel")
	}
	b, _ := json.Marshal(x)
	if !strings.Contains(string(b), `"Present"`) {
		t.Fatalf("unexpected json %s", b)
	}

	if err := json.Unmarshal([]byte(`{"endDate":"present"}`), &x); err == nil {
		t.Fatalf("expected lowercase sentinel to be rejected")
	}

	if err := json.Unmarshal([]byte(`{"endDate":"2024-06-01"}`), &x); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	if x.End.Present || x.End.On != models.NewDate(2024, time.June, 1) {
		t.Fatalf("unexpected end date %+v", x.End)
	}
}

func TestDateScan(t *testing.T) {
	var d models.Date
	if err := d.Scan(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Fatalf("got %s", d)
	}
	if err := d.Scan([]byte("2023-12-31")); err != nil || d != models.NewDate(2023, time.December, 31) {
		t.Fatalf("scan bytes: %v %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("scan nil: %v %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]models.Kind{"projects": models.KindProject, "skill": models.KindSkill, "socials": models.KindSocial} {
		got, err := models.ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := models.ParseKind("users"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestNormalize_FillsEmptyLists(t *testing.T) {
	p := models.Project{PagesInfoArr: []models.PageInfo{{Title: "Home"}}}
	models.NormalizeProject(&p)
	if p.Category == nil || p.TechStack == nil || p.DescriptionDetails.Bullets == nil || p.PagesInfoArr[0].ImgArr == nil {
		t.Fatalf("expected lists to be materialized: %+v", p)
	}
}
