package domain

import (
	"sort"

	"github.com/google/uuid"
)

type TemplateID string

const (
	TemplateCleanSlate TemplateID = "cleanslate"
	TemplateTradecraft TemplateID = "tradecraft"
	TemplateRetail     TemplateID = "retail"
	TemplateService    TemplateID = "service"
	TemplateExpert     TemplateID = "expert"
)

type ColorPair struct {
	Primary   string `json:"color_scheme"`
	Secondary string `json:"secondary_color_scheme"`
}

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
}

type Template struct {
	ID          TemplateID  `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Colors      ColorPair   `json:"colors"`
	Navigation  []NavItem   `json:"navigation"`
	Contact     ContactInfo `json:"contact"`
}

var templateCatalog = map[TemplateID]Template{
	TemplateCleanSlate: newTemplate(TemplateCleanSlate, "Clean Slate", "minimal general-purpose layout for any business", "black", "gray"),
	TemplateTradecraft: newTemplate(TemplateTradecraft, "Tradecraft", "trades and home services such as plumbing, roofing, electrical", "blue", "orange"),
	TemplateRetail:     newTemplate(TemplateRetail, "Retail", "shops, boutiques and product sellers", "purple", "pink"),
	TemplateService:    newTemplate(TemplateService, "Service", "appointment-based services such as salons, clinics, cleaning", "teal", "green"),
	TemplateExpert:     newTemplate(TemplateExpert, "Expert", "consultants, lawyers, accountants and other professional advisors", "amber", "yellow"),
}

func newTemplate(id TemplateID, name, description, primary, secondary string) Template {
	base := "/" + string(id)
	return Template{
		ID:          id,
		Name:        name,
		Description: description,
		Colors:      ColorPair{Primary: primary, Secondary: secondary},
		Navigation: []NavItem{
			{Label: "Home", Path: base},
			{Label: "About", Path: base + "/about"},
			{Label: "Services", Path: base + "/services"},
			{Label: "Blog", Path: base + "/blog"},
			{Label: "Contact", Path: base + "/contact"},
		},
		Contact: ContactInfo{
			Email:   "hello@example.com",
			Phone:   "(555) 123-4567",
			Address: "123 Main Street, Anytown",
			Hours:   "Mon-Fri 9am-5pm",
		},
	}
}

func ValidTemplateID(id string) bool {
	_, ok := templateCatalog[TemplateID(id)]
	return ok
}

// LookupTemplate returns the catalog entry for id.
func LookupTemplate(id TemplateID) (Template, bool) {
	t, ok := templateCatalog[id]
	return t, ok
}

// Templates returns the catalog sorted by id.
func Templates() []Template {
	out := make([]Template, 0, len(templateCatalog))
	for _, t := range templateCatalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultColors returns the template's default pair, or the zero pair for unknown ids.
func DefaultColors(id TemplateID) ColorPair {
	return templateCatalog[id].Colors
}

// CompanyData is the display data of the website currently being edited or previewed.
type CompanyData struct {
	CompanyName          string     `json:"company_name,omitempty"`
	DomainName           string     `json:"domain_name,omitempty"`
	Logo                 string     `json:"logo,omitempty"`
	ColorScheme          string     `json:"color_scheme,omitempty"`
	SecondaryColorScheme string     `json:"secondary_color_scheme,omitempty"`
	Template             TemplateID `json:"template,omitempty"`
	WebsiteID            *uuid.UUID `json:"website_id,omitempty"`
}

func (c *CompanyData) Colors() ColorPair {
	return ColorPair{Primary: c.ColorScheme, Secondary: c.SecondaryColorScheme}
}

func (c *CompanyData) SetColors(p ColorPair) {
	c.ColorScheme = p.Primary
	c.SecondaryColorScheme = p.Secondary
}

// SessionState is what a session stores: the company data plus the one-level undo slot.
type SessionState struct {
	CompanyData CompanyData `json:"company_data"`
	Undo        *ColorPair  `json:"undo,omitempty"`
}

// ResolveCompanyData merges the layers field by field with precedence
// nav > session > record > template default. Nil layers are skipped.
func ResolveCompanyData(nav, session *CompanyData, record *Website, template TemplateID) CompanyData {
	layers := make([]CompanyData, 0, 3)
	if nav != nil {
		layers = append(layers, *nav)
	}
	if session != nil {
		layers = append(layers, *session)
	}
	if record != nil {
		layers = append(layers, websiteCompanyData(record))
	}

	var out CompanyData
	for _, l := range layers {
		out.CompanyName = firstNonEmpty(out.CompanyName, l.CompanyName)
		out.DomainName = firstNonEmpty(out.DomainName, l.DomainName)
		out.Logo = firstNonEmpty(out.Logo, l.Logo)
		out.ColorScheme = firstNonEmpty(out.ColorScheme, l.ColorScheme)
		out.SecondaryColorScheme = firstNonEmpty(out.SecondaryColorScheme, l.SecondaryColorScheme)
		if out.Template == "" {
			out.Template = l.Template
		}
		if out.WebsiteID == nil {
			out.WebsiteID = l.WebsiteID
		}
	}

	if out.Template == "" {
		out.Template = template
	}
	def := DefaultColors(out.Template)
	out.ColorScheme = firstNonEmpty(out.ColorScheme, def.Primary)
	out.SecondaryColorScheme = firstNonEmpty(out.SecondaryColorScheme, def.Secondary)
	return out
}

func websiteCompanyData(w *Website) CompanyData {
	id := w.ID
	c := CompanyData{
		CompanyName:          w.Name,
		ColorScheme:          w.ColorScheme,
		SecondaryColorScheme: w.SecondaryColorScheme,
		Template:             w.TemplateID,
		WebsiteID:            &id,
	}
	if w.DomainName != nil {
		c.DomainName = *w.DomainName
	}
	if w.Logo != nil {
		c.Logo = *w.Logo
	}
	return c
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
