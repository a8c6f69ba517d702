package domain

import "strings"

// designatorToModel maps ICAO type designators to canonical model keys.
// Variants collapse onto one key so a watchlist entry like "B737" matches
// every 737 generation. Plain lookup data, intentionally not exhaustive.
var designatorToModel = map[string]string{
	// Airbus A320 family
	"A318": "A320", "A319": "A320", "A320": "A320", "A321": "A320",
	"A19N": "A320", "A20N": "A320", "A21N": "A320",
	// Airbus widebodies
	"A306": "A300", "A30B": "A300", "A310": "A300",
	"A332": "A330", "A333": "A330", "A338": "A330", "A339": "A330",
	"A342": "A340", "A343": "A340", "A345": "A340", "A346": "A340",
	"A359": "A350", "A35K": "A350",
	"A388": "A380",
	// Boeing 737
	"B731": "B737", "B732": "B737", "B733": "B737", "B734": "B737",
	"B735": "B737", "B736": "B737", "B737": "B737", "B738": "B737",
	"B739": "B737", "B37M": "B737", "B38M": "B737", "B39M": "B737",
	// Boeing widebodies
	"B741": "B747", "B742": "B747", "B743": "B747", "B744": "B747",
	"B748": "B747", "B74S": "B747",
	"B752": "B757", "B753": "B757",
	"B762": "B767", "B763": "B767", "B764": "B767",
	"B772": "B777", "B773": "B777", "B77L": "B777", "B77W": "B777",
	"B788": "B787", "B789": "B787", "B78X": "B787",
	// Regional jets
	"E170": "E170", "E75L": "E170", "E75S": "E170",
	"E190": "E190", "E195": "E190", "E290": "E190", "E295": "E190",
	"CRJ2": "CRJ", "CRJ7": "CRJ", "CRJ9": "CRJ", "CRJX": "CRJ",
	// Turboprops
	"AT43": "AT72", "AT45": "AT72", "AT46": "AT72",
	"AT72": "AT72", "AT75": "AT72", "AT76": "AT72",
	"DH8A": "DH8", "DH8B": "DH8", "DH8C": "DH8", "DH8D": "DH8",
	// General aviation
	"C172": "C172", "C72R": "C172",
	"PC12": "PC12",
}

// modelNames maps canonical model keys to display names.
var modelNames = map[string]string{
	"A300": "Airbus A300",
	"A320": "Airbus A320 family",
	"A330": "Airbus A330",
	"A340": "Airbus A340",
	"A350": "Airbus A350",
	"A380": "Airbus A380",
	"B737": "Boeing 737",
	"B747": "Boeing 747",
	"B757": "Boeing 757",
	"B767": "Boeing 767",
	"B777": "Boeing 777",
	"B787": "Boeing 787 Dreamliner",
	"E170": "Embraer E170/E175",
	"E190": "Embraer E190/E195",
	"CRJ":  "Bombardier CRJ",
	"AT72": "ATR 72",
	"DH8":  "De Havilland Dash 8",
	"C172": "Cessna 172",
	"PC12": "Pilatus PC-12",
}

// ModelKeyForType maps a type designator to its canonical model key.
// Returns "" when the designator is unrecognized.
func ModelKeyForType(code string) string {
	return designatorToModel[strings.ToUpper(strings.TrimSpace(code))]
}

// ModelName returns the display name for a canonical model key, or "" when
// the key is unknown.
func ModelName(key string) string {
	return modelNames[strings.ToUpper(strings.TrimSpace(key))]
}

// KnownModelKey reports whether key is one of the canonical model keys.
func KnownModelKey(key string) bool {
	_, ok := modelNames[strings.ToUpper(strings.TrimSpace(key))]
	return ok
}
