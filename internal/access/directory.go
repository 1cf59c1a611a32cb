package access

import (
	"fmt"

	"knowledge-search/internal/models"
)

// Directory resolves users and customers by id. It is read-only after
// construction and safe for concurrent use.
type Directory struct {
	users     []models.User
	customers []models.Customer
}

// NewDirectory returns the built-in users and customers.
func NewDirectory() *Directory {
	return &Directory{users: defaultUsers, customers: defaultCustomers}
}

func (d *Directory) Users() []models.User {
	return append([]models.User(nil), d.users...)
}

func (d *Directory) Customers() []models.Customer {
	return append([]models.Customer(nil), d.customers...)
}

func (d *Directory) User(id string) (models.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("unknown user %q", id)
}

func (d *Directory) Customer(id string) (models.Customer, error) {
	for _, c := range d.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, fmt.Errorf("unknown customer %q", id)
}

// Session resolves ids into a session. Empty ids fall back to the first
// user and the first customer.
func (d *Directory) Session(userID, customerID string) (models.Session, error) {
	var s models.Session
	var err error

	if userID == "" {
		s.User = d.users[0]
	} else if s.User, err = d.User(userID); err != nil {
		return models.Session{}, err
	}

	if customerID == "" {
		s.Customer = d.customers[0]
	} else if s.Customer, err = d.Customer(customerID); err != nil {
		return models.Session{}, err
	}
	return s, nil
}
