package model

import "time"

// Bus is a vehicle owned by a company.  Capacity is informational;
// the bookable seat count of a departure lives on the Schedule.
type Bus struct {
	ID           uint64    `json:"id"`            // buses.id
	CompanyID    uint64    `json:"company_id"`    // buses.company_id
	Name         string    `json:"name"`          // buses.name
	Description  string    `json:"description"`   // buses.description
	LicensePlate string    `json:"license_plate"` // buses.license_plate
	Capacity     uint32    `json:"capacity"`      // buses.capacity
	CreatedAt    time.Time `json:"created_at"`    // buses.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // buses.updated_at
}

// BusImage records an uploaded image for a bus.  The file itself is
// stored on disk under the upload directory; Path is relative to it.
type BusImage struct {
	ID        uint64    `json:"id"`         // bus_images.id
	BusID     uint64    `json:"bus_id"`     // bus_images.bus_id
	Path      string    `json:"path"`       // bus_images.path
	IsPrimary bool      `json:"is_primary"` // bus_images.is_primary
	CreatedAt time.Time `json:"created_at"` // bus_images.created_at
}

// BusCompany is an operator that owns buses.
type BusCompany struct {
	ID          uint64    `json:"id"`           // bus_companies.id
	CompanyName string    `json:"company_name"` // bus_companies.company_name
	Phone       string    `json:"phone"`        // bus_companies.phone
	Email       string    `json:"email"`        // bus_companies.email
	Address     string    `json:"address"`      // bus_companies.address
	CreatedAt   time.Time `json:"created_at"`   // bus_companies.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // bus_companies.updated_at
}
