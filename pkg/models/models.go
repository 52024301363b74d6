package models

// Domain models for portfolio content. JSON names follow the camelCase shape the
// front end consumes; the database layer maps them to snake_case columns.

type ProjectType string

const (
	ProjectPersonal     ProjectType = "Personal"
	ProjectProfessional ProjectType = "Professional"
)

type SkillCategory string

const (
	CategoryCoreStack    SkillCategory = "Core Stack"
	CategoryDevOpsTools  SkillCategory = "DevOps & Productivity Tools"
	CategoryProfessional SkillCategory = "Professional Skills"
)

// SiteConfigID is the fixed identity of the only SiteConfig record.
const SiteConfigID = "main"

type DescriptionDetails struct {
	Paragraphs []string `json:"paragraphs"`
	Bullets    []string `json:"bullets"`
}

type PageInfo struct {
	Title       string   `json:"title"`
	ImgArr      []string `json:"imgArr"`
	Description string   `json:"description,omitempty"`
}

type Project struct {
	ID                 string             `json:"id"`
	Type               ProjectType        `json:"type"`
	CompanyName        string             `json:"companyName"`
	Category           []string           `json:"category"`
	ShortDescription   string             `json:"shortDescription"`
	WebsiteLink        string             `json:"websiteLink,omitempty"`
	GithubLink         string             `json:"githubLink,omitempty"`
	TechStack          []string           `json:"techStack"`
	StartDate          Date               `json:"startDate"`
	EndDate            Date               `json:"endDate"`
	CompanyLogoImg     string             `json:"companyLogoImg"`
	DescriptionDetails DescriptionDetails `json:"descriptionDetails"`
	PagesInfoArr       []PageInfo         `json:"pagesInfoArr"`
}

type Experience struct {
	ID                  string   `json:"id"`
	Position            string   `json:"position"`
	Company             string   `json:"company"`
	Location            string   `json:"location"`
	StartDate           Date     `json:"startDate"`
	EndDate             EndDate  `json:"endDate"`
	Description         []string `json:"description"`
	Achievements        []string `json:"achievements"`
	Skills              []string `json:"skills"`
	CompanyURL          string   `json:"companyUrl,omitempty"`
	Logo                string   `json:"logo,omitempty"`
	ExperienceLetterURL string   `json:"experienceLetterUrl,omitempty"`
}

type Skill struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Rating      int           `json:"rating"`
	IconKey     string        `json:"iconKey,omitempty"`
	Category    SkillCategory `json:"category,omitempty"`
}

type Contribution struct {
	Repo                    string   `json:"repo"`
	ContributionDescription string   `json:"contributionDescription"`
	RepoOwner               string   `json:"repoOwner"`
	Link                    string   `json:"link"`
	TechStack               []string `json:"techStack"`
}

type SiteLinks struct {
	Twitter  string `json:"twitter"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
}

type SiteConfig struct {
	Name        string    `json:"name"`
	AuthorName  string    `json:"authorName"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Links       SiteLinks `json:"links"`
	OgImage     string    `json:"ogImage"`
	IconIco     string    `json:"iconIco"`
	LogoIcon    string    `json:"logoIcon"`
	Keywords    []string  `json:"keywords"`
}

// SocialLink keeps its icon as a symbolic reference (for example
// "icon-key:github"); resolving it to an asset is the front end's job.
type SocialLink struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Icon     string `json:"icon"`
	Link     string `json:"link"`
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func NormalizeProject(p *Project) {
	p.Category = emptyIfNil(p.Category)
	p.TechStack = emptyIfNil(p.TechStack)
	p.DescriptionDetails.Paragraphs = emptyIfNil(p.DescriptionDetails.Paragraphs)
	p.DescriptionDetails.Bullets = emptyIfNil(p.DescriptionDetails.Bullets)
	if p.PagesInfoArr == nil {
		p.PagesInfoArr = []PageInfo{}
	}
	for i := range p.PagesInfoArr {
		p.PagesInfoArr[i].ImgArr = emptyIfNil(p.PagesInfoArr[i].ImgArr)
	}
}

func NormalizeExperience(e *Experience) {
	e.Description = emptyIfNil(e.Description)
	e.Achievements = emptyIfNil(e.Achievements)
	e.Skills = emptyIfNil(e.Skills)
}

func NormalizeSkill(*Skill) {}

func NormalizeContribution(c *Contribution) {
	c.TechStack = emptyIfNil(c.TechStack)
}

func NormalizeSiteConfig(s *SiteConfig) {
	s.Keywords = emptyIfNil(s.Keywords)
}

func NormalizeSocialLink(*SocialLink) {}
