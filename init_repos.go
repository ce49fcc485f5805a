// Package main, repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB'yi alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/twomark/panel/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User    repository.UserRepository
	Company repository.CompanyRepository
	Session repository.SessionRepository
	Post    repository.PostRepository
	Event   repository.EventRepository
	Payment repository.PaymentRepository
	Profit  repository.ProfitRepository
	Visuals repository.VisualsRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// sql.DB thread-safe bir connection pool'dur; paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:    repository.NewSQLiteUserRepo(conn),
		Company: repository.NewSQLiteCompanyRepo(conn),
		Session: repository.NewSQLiteSessionRepo(conn),
		Post:    repository.NewSQLitePostRepo(conn),
		Event:   repository.NewSQLiteEventRepo(conn),
		Payment: repository.NewSQLitePaymentRepo(conn),
		Profit:  repository.NewSQLiteProfitRepo(conn),
		Visuals: repository.NewSQLiteVisualsRepo(conn),
	}
}
