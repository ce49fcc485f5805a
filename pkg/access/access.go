// Package access, panelin rol ve bölüm (section) politikasını tek bir yerde toplar.
//
// Kurallar:
//  1. admin her bölümü görür.
//  2. company sabit olarak firma akışı, firma takvimi ve ödemeler bölümlerini görür.
//  3. editor, users.permissions alanında verilen bölümleri görür; admin-only
//     bölümler editor'e verilmiş olsa bile yok sayılır.
//
// Aynı politika hem route middleware'inde (yetki) hem de /api/navigation
// yanıtında (menü) kullanılır; istemci menüsü sunucunun izin verdiğinden
// farklı olamaz.
package access

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/twomark/panel/models"
)

//go:embed menu.yaml
var embeddedMenu []byte

// CompanySections, firma hesaplarının sabit bölüm listesi.
var CompanySections = []models.Section{
	models.SectionCompanyFeed,
	models.SectionCompanyCalendar,
	models.SectionPayments,
}

// roleAliases, kabul edilen rol etiketleri → kanonik rol.
var roleAliases = map[string]models.Role{
	"admin":         models.RoleAdmin,
	"administrator": models.RoleAdmin,
	"yönetici":      models.RoleAdmin,
	"yonetici":      models.RoleAdmin,
	"editor":        models.RoleEditor,
	"editör":        models.RoleEditor,
	"company":       models.RoleCompany,
	"firma":         models.RoleCompany,
	"companyuser":   models.RoleCompany,
	"company_user":  models.RoleCompany,
}

// NormalizeRole, bir rol etiketini kanonik role çevirir (büyük/küçük harf duyarsız).
func NormalizeRole(label string) (models.Role, error) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("unknown role %q", label)
	}
	return role, nil
}

// MenuItem, katalogdaki bir menü girdisi.
type MenuItem struct {
	Key       models.Section `yaml:"key" json:"key"`
	Label     string         `yaml:"label" json:"label"`
	LabelTR   string         `yaml:"label_tr" json:"label_tr"`
	Path      string         `yaml:"path" json:"path"`
	Icon      string         `yaml:"icon" json:"icon,omitempty"`
	AdminOnly bool           `yaml:"admin_only" json:"admin_only"`
	Aliases   []string       `yaml:"aliases" json:"-"`
	Roles     []models.Role  `yaml:"roles" json:"-"`
	Children  []MenuItem     `yaml:"children" json:"children,omitempty"`
}

// allows, alt menü girdisinin role açık olup olmadığını döner.
// Roles boşsa girdi herkese açıktır.
func (m MenuItem) allows(role models.Role) bool {
	if len(m.Roles) == 0 {
		return true
	}
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Catalog, YAML'dan yüklenmiş menü kataloğu.
type Catalog struct {
	Sections []MenuItem `yaml:"sections"`

	index   map[models.Section]int
	aliases map[string]models.Section
}

// LoadCatalog, YAML menü tanımını parse eder ve doğrular.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse menu catalog: %w", err)
	}
	if len(c.Sections) == 0 {
		return nil, fmt.Errorf("menu catalog has no sections")
	}

	c.index = make(map[models.Section]int, len(c.Sections))
	c.aliases = make(map[string]models.Section)

	for i, item := range c.Sections {
		if item.Key == "" {
			return nil, fmt.Errorf("menu section %d has no key", i)
		}
		if _, dup := c.index[item.Key]; dup {
			return nil, fmt.Errorf("duplicate menu section %q", item.Key)
		}
		c.index[item.Key] = i
		c.aliases[foldLabel(string(item.Key))] = item.Key
		for _, alias := range item.Aliases {
			c.aliases[foldLabel(alias)] = item.Key
		}
	}

	return &c, nil
}

// DefaultCatalog, binary'ye gömülü menu.yaml'ı yükler.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(embeddedMenu)
}

// Lookup, bir bölüm anahtarının katalog girdisini döner.
func (c *Catalog) Lookup(s models.Section) (MenuItem, bool) {
	i, ok := c.index[s]
	if !ok {
		return MenuItem{}, false
	}
	return c.Sections[i], true
}

// Policy, katalog üzerinde rol/bölüm kararlarını veren yapı.
type Policy struct {
	catalog *Catalog
}

// NewPolicy, constructor.
func NewPolicy(catalog *Catalog) *Policy {
	return &Policy{catalog: catalog}
}

// Catalog, politikanın kullandığı kataloğu döner.
func (p *Policy) Catalog() *Catalog {
	return p.catalog
}

// NormalizeSections, ham izin etiketlerini katalog anahtarlarına çevirir.
// Bilinmeyen etiketler atılır, tekrarlar kaldırılır, sonuç katalog sırasındadır.
func (p *Policy) NormalizeSections(labels []string) []models.Section {
	granted := make(map[models.Section]bool, len(labels))
	for _, label := range labels {
		if key, ok := p.catalog.aliases[foldLabel(label)]; ok {
			granted[key] = true
		}
	}

	out := make([]models.Section, 0, len(granted))
	for _, item := range p.catalog.Sections {
		if granted[item.Key] {
			out = append(out, item.Key)
		}
	}
	return out
}

// Resolve, rol ve kayıtlı izinlerden efektif bölüm listesini hesaplar.
func (p *Policy) Resolve(role models.Role, grants []models.Section) []models.Section {
	switch role {
	case models.RoleAdmin:
		out := make([]models.Section, 0, len(p.catalog.Sections))
		for _, item := range p.catalog.Sections {
			out = append(out, item.Key)
		}
		return out

	case models.RoleCompany:
		out := make([]models.Section, 0, len(CompanySections))
		for _, s := range CompanySections {
			if _, ok := p.catalog.index[s]; ok {
				out = append(out, s)
			}
		}
		return out

	case models.RoleEditor:
		allowed := make(map[models.Section]bool, len(grants))
		for _, g := range grants {
			allowed[g] = true
		}
		out := make([]models.Section, 0, len(grants))
		for _, item := range p.catalog.Sections {
			if allowed[item.Key] && !item.AdminOnly {
				out = append(out, item.Key)
			}
		}
		return out
	}

	return []models.Section{}
}

// Sections, principal'ın efektif bölüm listesini döner.
func (p *Policy) Sections(pr *models.Principal) []models.Section {
	if pr == nil {
		return []models.Section{}
	}
	return p.Resolve(pr.Role, pr.Sections)
}

// Can, principal'ın bölüme erişip erişemeyeceğini döner.
// Karar her seferinde rol + kayıtlı izinlerden yeniden hesaplanır.
func (p *Policy) Can(pr *models.Principal, s models.Section) bool {
	if pr == nil {
		return false
	}
	for _, have := range p.Resolve(pr.Role, pr.Sections) {
		if have == s {
			return true
		}
	}
	return false
}

// CanAny, bölümlerden en az birine erişim olup olmadığını döner.
func (p *Policy) CanAny(pr *models.Principal, sections ...models.Section) bool {
	for _, s := range sections {
		if p.Can(pr, s) {
			return true
		}
	}
	return false
}

// Menu, principal'ın görebileceği menüyü katalog sırasıyla döner.
// Alt girdiler ayrıca role göre filtrelenir.
func (p *Policy) Menu(pr *models.Principal) []MenuItem {
	if pr == nil {
		return []MenuItem{}
	}

	visible := make(map[models.Section]bool)
	for _, s := range p.Resolve(pr.Role, pr.Sections) {
		visible[s] = true
	}

	out := make([]MenuItem, 0, len(visible))
	for _, item := range p.catalog.Sections {
		if !visible[item.Key] {
			continue
		}

		filtered := item
		filtered.Children = nil
		for _, child := range item.Children {
			if child.allows(pr.Role) {
				filtered.Children = append(filtered.Children, child)
			}
		}
		out = append(out, filtered)
	}
	return out
}

// SectionInfo, yetkilendirme sayfasında listelenen atanabilir bölüm.
type SectionInfo struct {
	Key       models.Section `json:"key"`
	Label     string         `json:"label"`
	LabelTR   string         `json:"label_tr"`
	AdminOnly bool           `json:"admin_only"`
}

// Assignable, katalogdaki tüm bölümleri admin-only bayrağıyla döner.
// İstemci admin-only bölümleri editor'ler için seçilemez gösterir.
func (p *Policy) Assignable() []SectionInfo {
	out := make([]SectionInfo, 0, len(p.catalog.Sections))
	for _, item := range p.catalog.Sections {
		out = append(out, SectionInfo{
			Key:       item.Key,
			Label:     item.Label,
			LabelTR:   item.LabelTR,
			AdminOnly: item.AdminOnly,
		})
	}
	return out
}

// foldLabel, etiket karşılaştırması için büyük/küçük harf ve boşluk farklarını siler.
func foldLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}
