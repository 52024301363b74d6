package models

import "fmt"

// Kind names one of the content categories.
type Kind string

const (
	KindProject      Kind = "project"
	KindExperience   Kind = "experience"
	KindSkill        Kind = "skill"
	KindContribution Kind = "contribution"
	KindSite         Kind = "site"
	KindSocial       Kind = "social"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{KindProject, KindExperience, KindSkill, KindContribution, KindSite, KindSocial}

var kindAliases = map[string]Kind{
	"project":       KindProject,
	"projects":      KindProject,
	"experience":    KindExperience,
	"experiences":   KindExperience,
	"skill":         KindSkill,
	"skills":        KindSkill,
	"contribution":  KindContribution,
	"contributions": KindContribution,
	"site":          KindSite,
	"social":        KindSocial,
	"socials":       KindSocial,
}

// ParseKind resolves a kind name, accepting the plural forms used in URLs.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Descriptor carries the per-kind behavior the backends and the admin gateway
// need to handle a multi-record kind generically.
type Descriptor[T any] struct {
	Kind Kind
	// KeyField is the JSON name of the identity field.
	KeyField  string
	Key       func(T) string
	SetKey    func(*T, string)
	Validate  func(T) error
	Normalize func(*T)
}

var ProjectDescriptor = Descriptor[Project]{
	Kind:      KindProject,
	KeyField:  "id",
	Key:       func(p Project) string { return p.ID },
	SetKey:    func(p *Project, k string) { p.ID = k },
	Validate:  ValidateProject,
	Normalize: NormalizeProject,
}

var ExperienceDescriptor = Descriptor[Experience]{
	Kind:      KindExperience,
	KeyField:  "id",
	Key:       func(e Experience) string { return e.ID },
	SetKey:    func(e *Experience, k string) { e.ID = k },
	Validate:  ValidateExperience,
	Normalize: NormalizeExperience,
}

var SkillDescriptor = Descriptor[Skill]{
	Kind:      KindSkill,
	KeyField:  "name",
	Key:       func(s Skill) string { return s.Name },
	SetKey:    func(s *Skill, k string) { s.Name = k },
	Validate:  ValidateSkill,
	Normalize: NormalizeSkill,
}

var ContributionDescriptor = Descriptor[Contribution]{
	Kind:      KindContribution,
	KeyField:  "repo",
	Key:       func(c Contribution) string { return c.Repo },
	SetKey:    func(c *Contribution, k string) { c.Repo = k },
	Validate:  ValidateContribution,
	Normalize: NormalizeContribution,
}

var SocialDescriptor = Descriptor[SocialLink]{
	Kind:      KindSocial,
	KeyField:  "name",
	Key:       func(s SocialLink) string { return s.Name },
	SetKey:    func(s *SocialLink, k string) { s.Name = k },
	Validate:  ValidateSocialLink,
	Normalize: NormalizeSocialLink,
}
