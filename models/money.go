package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Money, kuruş cinsinden tutar. Float toplama hatalarından kaçınmak için
// DB'de tam sayı olarak saklanır, JSON'da ondalık sayı olarak görünür:
// Money(150050) ↔ 1500.5
type Money int64

// ParseMoney, ondalık bir değeri kuruşa yuvarlar.
func ParseMoney(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount must be a finite number")
	}
	cents := math.Round(v * 100)
	if math.Abs(cents) > math.MaxInt64/2 {
		return 0, fmt.Errorf("amount is too large")
	}
	return Money(cents), nil
}

// Float, tutarı ondalık sayı olarak döner.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// String, "1500.50" gibi iki haneli gösterim döner.
func (m Money) String() string {
	return strconv.FormatFloat(m.Float(), 'f', 2, 64)
}

// MarshalJSON, tutarı JSON sayısı olarak yazar.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON, JSON sayısını veya sayı içeren string'i kabul eder
// (eski form istemcileri tutarı "1500.50" olarak gönderir).
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}

	parsed, err := ParseMoney(v)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
