package models

import (
	"fmt"
	"strings"
)

// FieldError names one offending field by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every field of a record that breaks its contract.
type ValidationError struct {
	Kind   Kind
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "required")
	}
}

func (e *ValidationError) date(field string, d Date) {
	switch {
	case d.IsZero():
		e.add(field, "required")
	case !d.Valid():
		e.add(field, "not a valid date")
	}
}

func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks record against the contract of kind. The record is never
// modified.
func Validate(kind Kind, record any) error {
	switch kind {
	case KindProject:
		if v, ok := record.(Project); ok {
			return ValidateProject(v)
		}
	case KindExperience:
		if v, ok := record.(Experience); ok {
			return ValidateExperience(v)
		}
	case KindSkill:
		if v, ok := record.(Skill); ok {
			return ValidateSkill(v)
		}
	case KindContribution:
		if v, ok := record.(Contribution); ok {
			return ValidateContribution(v)
		}
	case KindSite:
		if v, ok := record.(SiteConfig); ok {
			return ValidateSiteConfig(v)
		}
	case KindSocial:
		if v, ok := record.(SocialLink); ok {
			return ValidateSocialLink(v)
		}
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}
	return fmt.Errorf("record of type %T is not a %s", record, kind)
}

func ValidateProject(p Project) error {
	ve := &ValidationError{Kind: KindProject}
	ve.required("id", p.ID)
	switch p.Type {
	case ProjectPersonal, ProjectProfessional:
	case "":
		ve.add("type", "required")
	default:
		ve.add("type", fmt.Sprintf("must be %q or %q", ProjectPersonal, ProjectProfessional))
	}
	ve.required("companyName", p.CompanyName)
	ve.required("shortDescription", p.ShortDescription)
	ve.date("startDate", p.StartDate)
	ve.date("endDate", p.EndDate)
	for i, page := range p.PagesInfoArr {
		ve.required(fmt.Sprintf("pagesInfoArr[%d].title", i), page.Title)
	}
	return ve.err()
}

func ValidateExperience(x Experience) error {
	ve := &ValidationError{Kind: KindExperience}
	ve.required("id", x.ID)
	ve.required("position", x.Position)
	ve.required("company", x.Company)
	ve.date("startDate", x.StartDate)
	switch {
	case x.EndDate.Present:
		if !x.EndDate.On.IsZero() {
			ve.add("endDate", "cannot be both a date and "+PresentSentinel)
		}
	case x.EndDate.On.IsZero():
		ve.add("endDate", "required")
	case !x.EndDate.On.Valid():
		ve.add("endDate", "not a valid date")
	case x.StartDate.Valid() && x.EndDate.On.Before(x.StartDate):
		ve.add("endDate", "must not be before startDate")
	}
	return ve.err()
}

func ValidateSkill(s Skill) error {
	ve := &ValidationError{Kind: KindSkill}
	ve.required("name", s.Name)
	if s.Rating < 1 || s.Rating > 5 {
		ve.add("rating", fmt.Sprintf("must be between 1 and 5, got %d", s.Rating))
	}
	switch s.Category {
	case "", CategoryCoreStack, CategoryDevOpsTools, CategoryProfessional:
	default:
		ve.add("category", fmt.Sprintf("unknown category %q", s.Category))
	}
	return ve.err()
}

func ValidateContribution(c Contribution) error {
	ve := &ValidationError{Kind: KindContribution}
	ve.required("repo", c.Repo)
	ve.required("repoOwner", c.RepoOwner)
	ve.required("link", c.Link)
	return ve.err()
}

func ValidateSiteConfig(s SiteConfig) error {
	ve := &ValidationError{Kind: KindSite}
	ve.required("name", s.Name)
	ve.required("url", s.URL)
	return ve.err()
}

func ValidateSocialLink(s SocialLink) error {
	ve := &ValidationError{Kind: KindSocial}
	ve.required("name", s.Name)
	ve.required("link", s.Link)
	return ve.err()
}
