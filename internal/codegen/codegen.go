// Package codegen turns content records into Go source files and back.
//
// Each generated file holds one exported variable: an ordered slice literal
// for multi-record kinds, or a struct literal for the site configuration.
// Rendering is deterministic (struct field order, gofmt output) so the files
// diff cleanly under version control, and Parse(Render(x)) reproduces x.
package codegen

import (
	"fmt"

	"github.com/garnizeh/folio/pkg/models"
)

// Header opens every generated file.
const Header = "// Code generated by folio; DO NOT EDIT."

// PackageName is the package clause of generated files.
const PackageName = "content"

const modelsImport = "github.com/garnizeh/folio/pkg/models"

// File describes the generated file for one kind.
type File struct {
	Kind models.Kind
	Name string
	Var  string
	Doc  string
}

var files = map[models.Kind]File{
	models.KindProject:      {Kind: models.KindProject, Name: "projects.go", Var: "Projects", Doc: "Projects lists portfolio projects in display order."},
	models.KindExperience:   {Kind: models.KindExperience, Name: "experience.go", Var: "Experiences", Doc: "Experiences lists work history in display order."},
	models.KindSkill:        {Kind: models.KindSkill, Name: "skills.go", Var: "Skills", Doc: "Skills lists skills in display order."},
	models.KindContribution: {Kind: models.KindContribution, Name: "contributions.go", Var: "Contributions", Doc: "Contributions lists open source contributions in display order."},
	models.KindSite:         {Kind: models.KindSite, Name: "site.go", Var: "Site", Doc: "Site is the site-wide configuration."},
	models.KindSocial:       {Kind: models.KindSocial, Name: "socials.go", Var: "SocialLinks", Doc: "SocialLinks lists social profiles in display order."},
}

// FileFor returns the generated file description for kind.
func FileFor(kind models.Kind) (File, error) {
	f, ok := files[kind]
	if !ok {
		return File{}, fmt.Errorf("no generated file for kind %q", kind)
	}
	return f, nil
}

// RenderList renders an ordered list of records.
func RenderList[T any](f File, recs []T) ([]byte, error) {
	if recs == nil {
		recs = []T{}
	}
	return render(f, recs)
}

// ParseList decodes the list held by a file produced by RenderList.
func ParseList[T any](f File, src []byte) ([]T, error) {
	out := []T{}
	if err := parse(f, src, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func RenderSite(s models.SiteConfig) ([]byte, error) {
	f, _ := FileFor(models.KindSite)
	return render(f, s)
}

func ParseSite(src []byte) (models.SiteConfig, error) {
	f, _ := FileFor(models.KindSite)
	var s models.SiteConfig
	if err := parse(f, src, &s); err != nil {
		return models.SiteConfig{}, err
	}
	return s, nil
}
