package domain

import "time"

// AircraftState is one aircraft's instantaneous reported state vector.
// Rebuilt from the position feed on every poll, never persisted.
type AircraftState struct {
	ICAO24        string   `json:"icao24"`
	Callsign      string   `json:"callsign,omitempty"`
	OriginCountry string   `json:"origin_country,omitempty"`
	Position      *Point   `json:"position,omitempty"` // nil when no recent fix
	BaroAltitudeM *float64 `json:"baro_altitude_m,omitempty"`
	GeoAltitudeM  *float64 `json:"geo_altitude_m,omitempty"`
	VelocityMS    *float64 `json:"velocity_ms,omitempty"`
	TrueTrack     *float64 `json:"true_track,omitempty"`
	VerticalRate  *float64 `json:"vertical_rate,omitempty"`
	OnGround      bool     `json:"on_ground"`
	Squawk        string   `json:"squawk,omitempty"`
	Category      int      `json:"category,omitempty"`

	LastContact time.Time `json:"last_contact,omitzero"`
}

// TypeRecord is the resolved registration metadata for one airframe.
// Found=false is an explicit negative: the lookup confirmed there is no data
// for this identifier, and the answer is cached so the feed is never asked
// twice for the lifetime of the process.
type TypeRecord struct {
	ICAO24       string `json:"icao24"`
	Registration string `json:"registration,omitempty"`
	TypeCode     string `json:"type_code,omitempty"` // ICAO type designator, e.g. "B738"
	TypeName     string `json:"type_name,omitempty"` // provider's human-readable type
	Manufacturer string `json:"manufacturer,omitempty"`
	Operator     string `json:"operator,omitempty"`
	Found        bool   `json:"found"`
}

// WatchArea is the user-owned circular geofence plus the set of watched model
// keys. Exactly one instance is active at a time; it is mutated only through
// explicit setup actions.
type WatchArea struct {
	Center   Point    `json:"center"`
	RadiusKm float64  `json:"radius_km"`
	Models   []string `json:"models"`
	Active   bool     `json:"active"`
}

// Alert records one notification fired for a matched aircraft.
type Alert struct {
	ICAO24       string    `json:"icao24"`
	Callsign     string    `json:"callsign,omitempty"`
	Registration string    `json:"registration,omitempty"`
	TypeCode     string    `json:"type_code,omitempty"`
	ModelKey     string    `json:"model_key"`
	ModelName    string    `json:"model_name"`
	DistanceKm   float64   `json:"distance_km"`
	AltitudeM    *float64  `json:"altitude_m,omitempty"`
	AlertedAt    time.Time `json:"alerted_at"`
}
