// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Category represents a valid expense category.
type Category string

// The fixed category set understood by the backend.
const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryBills,
		CategoryHealthcare,
		CategoryEducation,
		CategoryOther,
	}
}

// ParseCategory matches a string against the category set, case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// User identifies the owner of an expense.
type User struct {
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the server granted this user the admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// Expense represents a single logged expense. Records are immutable once
// created; the server owns their lifecycle.
type Expense struct {
	Date     time.Time
	ID       string
	Title    string
	Category Category
	User     User
	Amount   float64
}

// OwnerName returns the owning user's name, or "Unknown" when the server
// omitted the user reference.
func (e Expense) OwnerName() string {
	if e.User.Name == "" {
		return "Unknown"
	}
	return e.User.Name
}

// Month returns the record's month label, truncated to month and year.
func (e Expense) Month() string {
	return e.Date.Format("Jan 2006")
}

// Validate checks the invariants a record must satisfy before submission:
// non-empty title, positive finite amount, known category, and a real date.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}
