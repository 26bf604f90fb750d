package model

import "time"

// Route connects a departure station to an arrival station.  Price is
// the base fare for a STANDARD seat on the route; seat classes scale
// it by their multiplier.
//
// Fields:
//  ID                 – primary key identifier.
//  DepartureStationID – station the route starts from.
//  ArrivalStationID   – station the route ends at.
//  Price              – base fare for the route.
//  Duration           – scheduled travel time in minutes.
//  Distance           – route length in kilometres.
type Route struct {
	ID                 uint64    `json:"id"`                   // routes.id
	DepartureStationID uint64    `json:"departure_station_id"` // routes.departure_station_id
	ArrivalStationID   uint64    `json:"arrival_station_id"`   // routes.arrival_station_id
	Price              float64   `json:"price"`                // routes.price
	Duration           uint32    `json:"duration"`             // routes.duration
	Distance           uint32    `json:"distance"`             // routes.distance
	CreatedAt          time.Time `json:"created_at"`           // routes.created_at
	UpdatedAt          time.Time `json:"updated_at"`           // routes.updated_at
}

// Station is a named boarding point referenced by routes.
type Station struct {
	ID        uint64    `json:"id"`         // stations.id
	Name      string    `json:"name"`       // stations.name
	Location  string    `json:"location"`   // stations.location
	CreatedAt time.Time `json:"created_at"` // stations.created_at
	UpdatedAt time.Time `json:"updated_at"` // stations.updated_at
}
