package models

// Role, bir principal'ın panel genelindeki rolü.
//
// Eski istemciler aynı rolü farklı etiketlerle gönderebilir ("Yönetici",
// "Admin", "Firma"...). Etiketler access.NormalizeRole ile bu kanonik
// değerlere çevrilir; DB'de ve token'da sadece kanonik değer durur.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleEditor  Role = "editor"
	RoleCompany Role = "company"
)

// PrincipalKind, principal'ın hangi tablodan geldiğini belirtir.
type PrincipalKind string

const (
	KindUser    PrincipalKind = "user"
	KindCompany PrincipalKind = "company"
)

// Section, panelin bir bölümü (menü girdisi). Bir principal'ın bölüme
// erişimi hem menüde görünmesini hem de o bölümün endpoint'lerini
// çağırabilmesini belirler.
type Section string

const (
	SectionMainFeed        Section = "main_feed"
	SectionAuthorization   Section = "authorization"
	SectionProfitTable     Section = "profit_table"
	SectionCompanyCreate   Section = "company_create"
	SectionCompanyFeed     Section = "company_feed"
	SectionCompanyCalendar Section = "company_calendar"
	SectionSharedCalendar  Section = "shared_calendar"
	SectionPayments        Section = "payments"
	SectionVisuals         Section = "visuals"
)

// Principal, kimliği doğrulanmış çağıranı temsil eder: bir panel kullanıcısı
// (admin/editor) veya bir firma hesabı.
//
// Auth middleware bunu request context'ine, WebSocket handler'ı da her
// bağlantıya koyar. Sections alanı access.Policy tarafından çözülmüş
// efektif bölüm listesidir.
type Principal struct {
	ID         string        `json:"id"`
	Kind       PrincipalKind `json:"kind"`
	Role       Role          `json:"role"`
	Username   string        `json:"username"`
	FullName   string        `json:"full_name"`
	AvatarURL  *string       `json:"avatar_url"`
	Sections   []Section     `json:"permissions"`
	BrandColor *string       `json:"brand_color_hex,omitempty"`
}

// IsAdmin, principal'ın admin olup olmadığını döner.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsStaff, principal'ın ajans çalışanı (admin veya editor) olup olmadığını döner.
func (p *Principal) IsStaff() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleEditor)
}

// IsCompany, principal'ın bir firma hesabı olup olmadığını döner.
func (p *Principal) IsCompany() bool {
	return p != nil && p.Kind == KindCompany
}

// HasSection, çözülmüş bölüm listesinde s'nin olup olmadığını döner.
func (p *Principal) HasSection(s Section) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Sections {
		if have == s {
			return true
		}
	}
	return false
}
