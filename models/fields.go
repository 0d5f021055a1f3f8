// models/fields.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList is a JSONB-backed ordered list of strings (package inclusions,
// requirements, customizable field names, client tags).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// Contains reports whether the list holds the given entry.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// AddOn is a purchasable extra attached to a package.
type AddOn struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type AddOnList []AddOn

func (l AddOnList) Value() (driver.Value, error) {
	if l == nil {
		l = AddOnList{}
	}
	return json.Marshal(l)
}

func (l *AddOnList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// PriceRange bounds a customizable numeric field.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceRangeMap maps a customizable field name to its allowed range.
type PriceRangeMap map[string]PriceRange

func (m PriceRangeMap) Value() (driver.Value, error) {
	if m == nil {
		m = PriceRangeMap{}
	}
	return json.Marshal(m)
}

func (m *PriceRangeMap) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}

// Child is one child on a client record.
type Child struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
	Notes     string    `json:"notes,omitempty"`
}

type ChildList []Child

func (l ChildList) Value() (driver.Value, error) {
	if l == nil {
		l = ChildList{}
	}
	return json.Marshal(l)
}

func (l *ChildList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}
