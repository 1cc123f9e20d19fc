package main

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"classly/internal/model"
	"classly/internal/storage"
)

// seed populates the database with a small, self-consistent sample data set.
// Running it twice duplicates nothing with unique constraints but may fail
// on them; idempotency is not guaranteed.
func (cli *commandLine) seed(driver, dsn string) error {
	db, err := storage.Open(driver, dsn)
	if err != nil {
		return err
	}
	if err := storage.Migrate(db); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		org := &model.Organization{Name: "Northwind Academy", ContactEmail: "office@northwind.example"}
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("seeding organization: %w", err)
		}

		categories := []*model.Category{
			{Name: "Programming", Description: "Software development courses"},
			{Name: "Mathematics", Description: "Applied and pure mathematics"},
		}
		for _, cat := range categories {
			if err := tx.Create(cat).Error; err != nil {
				return fmt.Errorf("seeding category: %w", err)
			}
		}

		courses := []*model.Course{
			{Title: "Go for Backend Engineers", CategoryID: categories[0].ID, OrganizationID: org.ID, PriceCents: 14900, OrderIndex: 0},
			{Title: "Databases in Practice", CategoryID: categories[0].ID, OrganizationID: org.ID, PriceCents: 9900, OrderIndex: 1},
			{Title: "Linear Algebra", CategoryID: categories[1].ID, OrganizationID: org.ID, PriceCents: 7900, OrderIndex: 0},
		}
		for _, course := range courses {
			if err := tx.Create(course).Error; err != nil {
				return fmt.Errorf("seeding course: %w", err)
			}
		}

		users := []*model.User{
			{Name: "Ada Lovelace", Email: "ada@northwind.example", EmailNotificationsEnabled: true},
			{Name: "Alan Turing", Email: "alan@northwind.example", EmailNotificationsEnabled: true},
			{Name: "Grace Hopper", Email: "grace@northwind.example", EmailNotificationsEnabled: false},
		}
		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("seeding user: %w", err)
			}
		}

		students := []*model.Student{
			{UserID: users[0].ID, OrganizationID: org.ID, Level: "beginner"},
			{UserID: users[1].ID, OrganizationID: org.ID, Level: "advanced"},
		}
		for _, st := range students {
			if err := tx.Create(st).Error; err != nil {
				return fmt.Errorf("seeding student: %w", err)
			}
		}

		payment := &model.Payment{
			StudentID:   students[0].ID,
			CourseID:    courses[0].ID,
			AmountCents: courses[0].PriceCents,
			Currency:    "USD",
			Status:      model.PaymentCompleted,
			Reference:   "seed-payment-0001",
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("seeding payment: %w", err)
		}

		slog.Info("sample data seeded",
			"organizations", 1,
			"categories", len(categories),
			"courses", len(courses),
			"users", len(users),
			"students", len(students),
			"payments", 1,
		)
		return nil
	})
}
