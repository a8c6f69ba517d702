// Package domain models live aircraft state and the watch-area matching rules.
//
// # Data Sources
//
// Position data comes from an OpenSky-style REST feed. The states endpoint
// returns a JSON object with a "states" array of fixed-position arrays, one
// per aircraft:
//
//	index 0  icao24            24-bit transponder address, lower-case hex
//	index 1  callsign          8 characters, space-padded, may be null
//	index 2  origin_country    country of registration
//	index 3  time_position     unix seconds of last position fix, null if none
//	index 4  last_contact      unix seconds of last received message
//	index 5  longitude         WGS-84 degrees, null when no fix
//	index 6  latitude          WGS-84 degrees, null when no fix
//	index 7  baro_altitude     metres, null when unknown
//	index 8  on_ground         boolean
//	index 9  velocity          ground speed in m/s, null when unknown
//	index 10 true_track        degrees clockwise from north
//	index 11 vertical_rate     m/s, positive climbing
//	index 12 sensors           receiver ids, usually null
//	index 13 geo_altitude      metres, null when unknown
//	index 14 squawk            transponder code string
//	index 15 spi               special position indicator flag
//	index 16 position_source   0 ADS-B, 1 ASTERIX, 2 MLAT, 3 FLARM
//	index 17 category          emitter category, may be absent
//
// Null numeric fields mean "unknown", never zero; they are modelled as nil
// pointers here.
//
// Type metadata comes from a hexdb-style per-aircraft lookup keyed by icao24
// and is reduced to a canonical model key through the static designator table
// in this package ("B738" and "B739" both map to "B737").
//
// # Geometry
//
// Watch areas are circles. The radius is converted to a lat/lon bounding box
// with a flat-Earth approximation (111.32 km per degree of latitude, longitude
// scaled by cos(lat)) for the feed query, then results are trimmed to the
// exact circle with the haversine great-circle distance. The approximation
// degrades near the poles, which is acceptable for the supported use case.
package domain
