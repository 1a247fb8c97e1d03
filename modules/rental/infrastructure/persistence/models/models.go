package models

import "time"

type Customer struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	Notes       string
	Attachments []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID          string
	Name        string
	SKU         string
	Description string
	DailyRate   string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Reservation struct {
	ID         string
	CustomerID string
	ProductIDs []string
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Payment struct {
	ID            string
	CustomerID    string
	ReservationID *string
	Amount        string
	Currency      string
	Method        string
	PaidAt        time.Time
	Notes         string
	Attachments   []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Cost struct {
	ID         string
	Name       string
	Category   string
	Amount     string
	IncurredAt time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
