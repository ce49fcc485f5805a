package models

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// Tarih ve saat formatları. Takvim, ödeme ve kazanç kayıtları tarihleri
// saat dilimi olmadan "YYYY-MM-DD" string'i olarak taşır; bu format
// sözlük sırası ile kronolojik sıra aynı olduğu için SQL'de doğrudan
// karşılaştırılabilir.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor, s'nin #RRGGBB formatında olup olmadığını döner.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// IsDate, s'nin geçerli bir YYYY-MM-DD tarihi olup olmadığını döner.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock, s'nin geçerli bir HH:MM saati olup olmadığını döner.
func IsClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ContactEmail, firma iletişim bilgisinin içinden ilk geçerli email adresini
// çıkarır. İletişim alanı serbest metindir ("Ayşe / ayse@firma.com, 0555...").
func ContactEmail(contact string) (string, bool) {
	fields := strings.FieldsFunc(contact, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\n' || r == '\t' || r == '<' || r == '>'
	})
	for _, f := range fields {
		if !strings.Contains(f, "@") {
			continue
		}
		addr, err := mail.ParseAddress(f)
		if err == nil {
			return addr.Address, true
		}
	}
	return "", false
}

// DateRange, opsiyonel kapsayıcı tarih aralığı filtresi (?start=&end=).
// Boş uç sınırsız demektir.
type DateRange struct {
	Start string
	End   string
}

// Validate, dolu uçların geçerli tarih olduğunu ve aralığın ters olmadığını kontrol eder.
func (d DateRange) Validate() error {
	if d.Start != "" && !IsDate(d.Start) {
		return fmt.Errorf("start must use the YYYY-MM-DD format")
	}
	if d.End != "" && !IsDate(d.End) {
		return fmt.Errorf("end must use the YYYY-MM-DD format")
	}
	if d.Start != "" && d.End != "" && d.End < d.Start {
		return fmt.Errorf("end must not be before start")
	}
	return nil
}

// Contains, tarihin aralıkta olup olmadığını döner.
func (d DateRange) Contains(date string) bool {
	if d.Start != "" && date < d.Start {
		return false
	}
	if d.End != "" && date > d.End {
		return false
	}
	return true
}
