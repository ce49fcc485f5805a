package ws

import "github.com/twomark/panel/models"

// Audience, bir event'in hangi bağlantılara gideceğini belirler.
// Hub her client için bir kez çağırır; nil principal hiçbir zaman eşleşmez.
type Audience func(p *models.Principal) bool

// Everyone, giriş yapmış herkes.
func Everyone() Audience {
	return func(p *models.Principal) bool { return p != nil }
}

// Staff, admin ve editor'ler.
func Staff() Audience {
	return func(p *models.Principal) bool { return p.IsStaff() }
}

// Admins, sadece admin'ler.
func Admins() Audience {
	return func(p *models.Principal) bool { return p.IsAdmin() }
}

// EditorsWith, s bölümüne sahip editor'ler.
func EditorsWith(s models.Section) Audience {
	return func(p *models.Principal) bool {
		return p != nil && p.Role == models.RoleEditor && p.HasSection(s)
	}
}

// Principals, id'si listede olan principal'lar. Boş id'ler yok sayılır.
func Principals(ids ...string) Audience {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return func(p *models.Principal) bool { return p != nil && set[p.ID] }
}

// AnyOf, audience'lardan herhangi birine uyanlar.
func AnyOf(audiences ...Audience) Audience {
	return func(p *models.Principal) bool {
		for _, a := range audiences {
			if a != nil && a(p) {
				return true
			}
		}
		return false
	}
}
