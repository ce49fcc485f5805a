package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twomark/panel/models"
)

// rowScanner, *sql.Row ve *sql.Rows'un ortak Scan metodu. Aynı scan
// fonksiyonu hem tekil hem çoğul sorgularda kullanılır.
type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını tespit eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation, SQLite FOREIGN KEY constraint hatasını tespit eder.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// encodeList, string listesini JSON dizi kolonuna yazılacak metne çevirir.
// nil liste "[]" olarak saklanır.
func encodeList[T ~string](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

// decodeList, JSON dizi kolonunu okur. Boş veya bozuk değer boş liste döner.
func decodeList[T ~string](raw string) []T {
	out := []T{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []T{}
	}
	return out
}

// whereBuilder, dinamik WHERE koşullarını parametreleriyle birlikte toplar.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// dateRange, kolonun [start, end] aralığında olmasını ister (sınırlar dahil).
// Boş sınır uygulanmaz.
func (w *whereBuilder) dateRange(column string, r models.DateRange) {
	if r.Start != "" {
		w.add(column+" >= ?", r.Start)
	}
	if r.End != "" {
		w.add(column+" <= ?", r.End)
	}
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
