package model

import "time"

// BusStop is one intermediate call a bus makes at a station, with the
// arrival and departure window at that station.  Stops are ordered
// along the trip by Sequence.
type BusStop struct {
	ID            uint64    `json:"id"`             // bus_stations.id
	BusID         uint64    `json:"bus_id"`         // bus_stations.bus_id
	StationID     uint64    `json:"station_id"`     // bus_stations.station_id
	ArrivalTime   time.Time `json:"arrival_time"`   // bus_stations.arrival_time
	DepartureTime time.Time `json:"departure_time"` // bus_stations.departure_time
	Sequence      uint32    `json:"sequence"`       // bus_stations.sequence
	Platform      string    `json:"platform"`       // bus_stations.platform
	IsActive      bool      `json:"is_active"`      // bus_stations.is_active
	CreatedAt     time.Time `json:"created_at"`     // bus_stations.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // bus_stations.updated_at
}
