package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/folio/pkg/models"
)

// Row shapes mirror the snake_case tables. The *ToRow and rowTo* pairs are
// inverses for every valid record.

// jsonList stores a string list as JSON text.
type jsonList []string

func (l jsonList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *jsonList) Scan(src any) error {
	var out []string
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// jsonPages stores page descriptions as JSON text.
type jsonPages []models.PageInfo

func (p jsonPages) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]models.PageInfo(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *jsonPages) Scan(src any) error {
	var out []models.PageInfo
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []models.PageInfo{}
	}
	*p = out
	return nil
}

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into a JSON list", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

// nullDate is a nullable DATE column.
type nullDate struct {
	Date  models.Date
	Valid bool
}

func (n nullDate) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Date.Value()
}

func (n *nullDate) Scan(src any) error {
	if src == nil {
		*n = nullDate{}
		return nil
	}
	n.Valid = true
	return n.Date.Scan(src)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type projectRow struct {
	ID                    string
	Type                  string
	CompanyName           string
	Category              jsonList
	ShortDescription      string
	WebsiteLink           sql.NullString
	GithubLink            sql.NullString
	TechStack             jsonList
	StartDate             models.Date
	EndDate               models.Date
	CompanyLogoImg        string
	DescriptionParagraphs jsonList
	DescriptionBullets    jsonList
	PagesInfo             jsonPages
}

var projectColumns = []string{
	"id", "type", "company_name", "category", "short_description", "website_link",
	"github_link", "tech_stack", "start_date", "end_date", "company_logo_img",
	"description_paragraphs", "description_bullets", "pages_info",
}

func (r projectRow) args() []any {
	return []any{
		r.ID, r.Type, r.CompanyName, r.Category, r.ShortDescription, r.WebsiteLink,
		r.GithubLink, r.TechStack, r.StartDate, r.EndDate, r.CompanyLogoImg,
		r.DescriptionParagraphs, r.DescriptionBullets, r.PagesInfo,
	}
}

func (r *projectRow) dest() []any {
	return []any{
		&r.ID, &r.Type, &r.CompanyName, &r.Category, &r.ShortDescription, &r.WebsiteLink,
		&r.GithubLink, &r.TechStack, &r.StartDate, &r.EndDate, &r.CompanyLogoImg,
		&r.DescriptionParagraphs, &r.DescriptionBullets, &r.PagesInfo,
	}
}

func projectToRow(p models.Project) projectRow {
	return projectRow{
		ID:                    p.ID,
		Type:                  string(p.Type),
		CompanyName:           p.CompanyName,
		Category:              p.Category,
		ShortDescription:      p.ShortDescription,
		WebsiteLink:           nullString(p.WebsiteLink),
		GithubLink:            nullString(p.GithubLink),
		TechStack:             p.TechStack,
		StartDate:             p.StartDate,
		EndDate:               p.EndDate,
		CompanyLogoImg:        p.CompanyLogoImg,
		DescriptionParagraphs: p.DescriptionDetails.Paragraphs,
		DescriptionBullets:    p.DescriptionDetails.Bullets,
		PagesInfo:             p.PagesInfoArr,
	}
}

func rowToProject(r projectRow) models.Project {
	p := models.Project{
		ID:               r.ID,
		Type:             models.ProjectType(r.Type),
		CompanyName:      r.CompanyName,
		Category:         r.Category,
		ShortDescription: r.ShortDescription,
		WebsiteLink:      r.WebsiteLink.String,
		GithubLink:       r.GithubLink.String,
		TechStack:        r.TechStack,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		CompanyLogoImg:   r.CompanyLogoImg,
		DescriptionDetails: models.DescriptionDetails{
			Paragraphs: r.DescriptionParagraphs,
			Bullets:    r.DescriptionBullets,
		},
		PagesInfoArr: r.PagesInfo,
	}
	models.NormalizeProject(&p)
	return p
}

type experienceRow struct {
	ID                  string
	Position            string
	Company             string
	Location            string
	StartDate           models.Date
	EndDate             nullDate
	IsPresent           bool
	Description         jsonList
	Achievements        jsonList
	Skills              jsonList
	CompanyURL          sql.NullString
	Logo                sql.NullString
	ExperienceLetterURL sql.NullString
}

var experienceColumns = []string{
	"id", "position", "company", "location", "start_date", "end_date", "is_present",
	"description", "achievements", "skills", "company_url", "logo", "experience_letter_url",
}

func (r experienceRow) args() []any {
	return []any{
		r.ID, r.Position, r.Company, r.Location, r.StartDate, r.EndDate, r.IsPresent,
		r.Description, r.Achievements, r.Skills, r.CompanyURL, r.Logo, r.ExperienceLetterURL,
	}
}

func (r *experienceRow) dest() []any {
	return []any{
		&r.ID, &r.Position, &r.Company, &r.Location, &r.StartDate, &r.EndDate, &r.IsPresent,
		&r.Description, &r.Achievements, &r.Skills, &r.CompanyURL, &r.Logo, &r.ExperienceLetterURL,
	}
}

// experienceToRow stores "Present" as a NULL end_date with is_present set.
func experienceToRow(e models.Experience) experienceRow {
	r := experienceRow{
		ID:                  e.ID,
		Position:            e.Position,
		Company:             e.Company,
		Location:            e.Location,
		StartDate:           e.StartDate,
		Description:         e.Description,
		Achievements:        e.Achievements,
		Skills:              e.Skills,
		CompanyURL:          nullString(e.CompanyURL),
		Logo:                nullString(e.Logo),
		ExperienceLetterURL: nullString(e.ExperienceLetterURL),
	}
	if e.EndDate.Present {
		r.IsPresent = true
	} else if !e.EndDate.On.IsZero() {
		r.EndDate = nullDate{Date: e.EndDate.On, Valid: true}
	}
	return r
}

// rowToExperience gives is_present precedence over any stored end_date.
func rowToExperience(r experienceRow) models.Experience {
	e := models.Experience{
		ID:                  r.ID,
		Position:            r.Position,
		Company:             r.Company,
		Location:            r.Location,
		StartDate:           r.StartDate,
		Description:         r.Description,
		Achievements:        r.Achievements,
		Skills:              r.Skills,
		CompanyURL:          r.CompanyURL.String,
		Logo:                r.Logo.String,
		ExperienceLetterURL: r.ExperienceLetterURL.String,
	}
	switch {
	case r.IsPresent:
		e.EndDate = models.EndDate{Present: true}
	case r.EndDate.Valid:
		e.EndDate = models.EndOn(r.EndDate.Date)
	}
	models.NormalizeExperience(&e)
	return e
}

type skillRow struct {
	Name        string
	Description string
	Rating      int
	IconKey     sql.NullString
	Category    sql.NullString
}

var skillColumns = []string{"name", "description", "rating", "icon_key", "category"}

func (r skillRow) args() []any {
	return []any{r.Name, r.Description, r.Rating, r.IconKey, r.Category}
}

func (r *skillRow) dest() []any {
	return []any{&r.Name, &r.Description, &r.Rating, &r.IconKey, &r.Category}
}

func skillToRow(s models.Skill) skillRow {
	return skillRow{
		Name:        s.Name,
		Description: s.Description,
		Rating:      s.Rating,
		IconKey:     nullString(s.IconKey),
		Category:    nullString(string(s.Category)),
	}
}

func rowToSkill(r skillRow) models.Skill {
	return models.Skill{
		Name:        r.Name,
		Description: r.Description,
		Rating:      r.Rating,
		IconKey:     r.IconKey.String,
		Category:    models.SkillCategory(r.Category.String),
	}
}

type contributionRow struct {
	Repo                    string
	ContributionDescription string
	RepoOwner               string
	Link                    string
	TechStack               jsonList
}

var contributionColumns = []string{"repo", "contribution_description", "repo_owner", "link", "tech_stack"}

func (r contributionRow) args() []any {
	return []any{r.Repo, r.ContributionDescription, r.RepoOwner, r.Link, r.TechStack}
}

func (r *contributionRow) dest() []any {
	return []any{&r.Repo, &r.ContributionDescription, &r.RepoOwner, &r.Link, &r.TechStack}
}

func contributionToRow(c models.Contribution) contributionRow {
	return contributionRow{
		Repo:                    c.Repo,
		ContributionDescription: c.ContributionDescription,
		RepoOwner:               c.RepoOwner,
		Link:                    c.Link,
		TechStack:               c.TechStack,
	}
}

func rowToContribution(r contributionRow) models.Contribution {
	c := models.Contribution{
		Repo:                    r.Repo,
		ContributionDescription: r.ContributionDescription,
		RepoOwner:               r.RepoOwner,
		Link:                    r.Link,
		TechStack:               r.TechStack,
	}
	models.NormalizeContribution(&c)
	return c
}

type socialRow struct {
	Name     string
	Username string
	Icon     string
	Link     string
}

var socialColumns = []string{"name", "username", "icon", "link"}

func (r socialRow) args() []any { return []any{r.Name, r.Username, r.Icon, r.Link} }

func (r *socialRow) dest() []any { return []any{&r.Name, &r.Username, &r.Icon, &r.Link} }

func socialToRow(s models.SocialLink) socialRow {
	return socialRow{Name: s.Name, Username: s.Username, Icon: s.Icon, Link: s.Link}
}

func rowToSocial(r socialRow) models.SocialLink {
	return models.SocialLink{Name: r.Name, Username: r.Username, Icon: r.Icon, Link: r.Link}
}

type siteRow struct {
	Name         string
	AuthorName   string
	Username     string
	Description  string
	URL          string
	TwitterLink  string
	GithubLink   string
	LinkedinLink string
	OgImage      string
	IconIco      string
	LogoIcon     string
	Keywords     jsonList
}

var siteColumns = []string{
	"name", "author_name", "username", "description", "url", "twitter_link",
	"github_link", "linkedin_link", "og_image", "icon_ico", "logo_icon", "keywords",
}

func (r siteRow) args() []any {
	return []any{
		r.Name, r.AuthorName, r.Username, r.Description, r.URL, r.TwitterLink,
		r.GithubLink, r.LinkedinLink, r.OgImage, r.IconIco, r.LogoIcon, r.Keywords,
	}
}

func (r *siteRow) dest() []any {
	return []any{
		&r.Name, &r.AuthorName, &r.Username, &r.Description, &r.URL, &r.TwitterLink,
		&r.GithubLink, &r.LinkedinLink, &r.OgImage, &r.IconIco, &r.LogoIcon, &r.Keywords,
	}
}

func siteToRow(s models.SiteConfig) siteRow {
	return siteRow{
		Name:         s.Name,
		AuthorName:   s.AuthorName,
		Username:     s.Username,
		Description:  s.Description,
		URL:          s.URL,
		TwitterLink:  s.Links.Twitter,
		GithubLink:   s.Links.Github,
		LinkedinLink: s.Links.Linkedin,
		OgImage:      s.OgImage,
		IconIco:      s.IconIco,
		LogoIcon:     s.LogoIcon,
		Keywords:     s.Keywords,
	}
}

func rowToSite(r siteRow) models.SiteConfig {
	s := models.SiteConfig{
		Name:        r.Name,
		AuthorName:  r.AuthorName,
		Username:    r.Username,
		Description: r.Description,
		URL:         r.URL,
		Links: models.SiteLinks{
			Twitter:  r.TwitterLink,
			Github:   r.GithubLink,
			Linkedin: r.LinkedinLink,
		},
		OgImage:  r.OgImage,
		IconIco:  r.IconIco,
		LogoIcon: r.LogoIcon,
		Keywords: r.Keywords,
	}
	models.NormalizeSiteConfig(&s)
	return s
}
