package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidProduct  = errors.New("invalid product")
)

type Category string

const (
	CategoryFood  Category = "makanan"
	CategoryDrink Category = "minuman"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryFood, CategoryDrink:
		return c, nil
	default:
		return "", ErrInvalidCategory
	}
}

// Product prices are whole rupiah.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Category    Category  `json:"category"`
	ImageURL    *string   `json:"image_url"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Orderable reports whether end users may put the product in a cart.
func (p Product) Orderable() bool {
	return p.IsActive && p.IsVisible
}

type NewProduct struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (n NewProduct) Validate() error {
	if n.Name == "" || n.Price < 0 {
		return ErrInvalidProduct
	}
	if _, err := ParseCategory(string(n.Category)); err != nil {
		return err
	}
	return nil
}

// Patch carries a partial admin update; nil fields are left untouched.
type Patch struct {
	Name        *string   `json:"name,omitempty"`
	Price       *int64    `json:"price,omitempty"`
	Category    *Category `json:"category,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	IsVisible   *bool     `json:"is_visible,omitempty"`
}

func (p Patch) Apply(dst *Product) error {
	if p.Name != nil {
		if *p.Name == "" {
			return ErrInvalidProduct
		}
		dst.Name = *p.Name
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return ErrInvalidProduct
		}
		dst.Price = *p.Price
	}
	if p.Category != nil {
		c, err := ParseCategory(string(*p.Category))
		if err != nil {
			return err
		}
		dst.Category = c
	}
	if p.ImageURL != nil {
		dst.ImageURL = p.ImageURL
	}
	if p.Description != nil {
		dst.Description = p.Description
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	if p.IsVisible != nil {
		dst.IsVisible = *p.IsVisible
	}
	return nil
}
