// Package catalog holds the static reference data the flows present:
// boarding locations grouped by region, mock departure boards, and the
// pass category table.
package catalog

import "github.com/m3rciful/transitbot/bot/i18n"

// Region groups boarding locations for two-step selection.
type Region string

const (
	RegionSectors1to20  Region = "sectors1to20"
	RegionSectors21to40 Region = "sectors21to40"
	RegionSectors41to61 Region = "sectors41to61"
	RegionLandmarks     Region = "landmarks"
	RegionNeighboring   Region = "neighboring"
)

// Regions returns the selectable regions in presentation order.
func Regions() []Region {
	return []Region{
		RegionSectors1to20,
		RegionSectors21to40,
		RegionSectors41to61,
		RegionLandmarks,
		RegionNeighboring,
	}
}

// ValidRegion reports whether r is a known region.
func ValidRegion(r Region) bool {
	_, ok := locationsByRegion[r]
	return ok
}

// RegionName returns the localized display name for a region.
func RegionName(r Region, lang i18n.Lang) string {
	names, ok := regionNames[lang]
	if !ok {
		names = regionNames[i18n.LangEnglish]
	}
	if name, ok := names[r]; ok {
		return name
	}
	return string(r)
}

var regionNames = map[i18n.Lang]map[Region]string{
	i18n.LangEnglish: {
		RegionSectors1to20:  "Sectors 1-20",
		RegionSectors21to40: "Sectors 21-40",
		RegionSectors41to61: "Sectors 41-61",
		RegionLandmarks:     "Landmarks",
		RegionNeighboring:   "Neighboring Areas",
	},
	i18n.LangHindi: {
		RegionSectors1to20:  "सेक्टर 1-20",
		RegionSectors21to40: "सेक्टर 21-40",
		RegionSectors41to61: "सेक्टर 41-61",
		RegionLandmarks:     "प्रमुख स्थान",
		RegionNeighboring:   "पड़ोसी क्षेत्र",
	},
	i18n.LangPunjabi: {
		RegionSectors1to20:  "ਸੈਕਟਰ 1-20",
		RegionSectors21to40: "ਸੈਕਟਰ 21-40",
		RegionSectors41to61: "ਸੈਕਟਰ 41-61",
		RegionLandmarks:     "ਪ੍ਰਮੁੱਖ ਸਥਾਨ",
		RegionNeighboring:   "ਗੁਆਂਢੀ ਖੇਤਰ",
	},
}

var locationsByRegion = map[Region][]string{
	RegionSectors1to20: {
		"Sector 1 (Capitol Complex)", "Sector 2", "Sector 3", "Sector 4",
		"Sector 5", "Sector 6", "Sector 7", "Sector 8", "Sector 9",
		"Sector 10", "Sector 11", "Sector 12", "Sector 14", "Sector 15",
		"Sector 16", "Sector 17 ISBT", "Sector 18", "Sector 19", "Sector 20",
	},
	RegionSectors21to40: {
		"Sector 21", "Sector 22", "Sector 23", "Sector 24", "Sector 25",
		"Sector 26", "Sector 27", "Sector 28", "Sector 29", "Sector 30",
		"Sector 31", "Sector 32", "Sector 33", "Sector 34", "Sector 35",
		"Sector 36", "Sector 37", "Sector 38", "Sector 39", "Sector 40",
	},
	RegionSectors41to61: {
		"Sector 41", "Sector 42", "Sector 43 ISBT", "Sector 44", "Sector 45",
		"Sector 46", "Sector 47", "Sector 48", "Sector 49", "Sector 50",
		"Sector 51", "Sector 52", "Sector 53", "Sector 54", "Sector 55",
		"Sector 56", "Sector 61",
	},
	RegionLandmarks: {
		"PGI", "Panjab University", "Rock Garden", "Sukhna Lake",
		"Industrial Area", "IT Park", "Railway Station", "Bus Stand",
	},
	RegionNeighboring: {
		"Panchkula", "Mohali", "Zirakpur", "Kharar", "Airport",
		"Manimajra", "Dhanas", "Sarangpur",
	},
}

// Locations returns the boarding locations for a region.
func Locations(r Region) []string {
	locs := locationsByRegion[r]
	out := make([]string, len(locs))
	copy(out, locs)
	return out
}

// DestinationLocations returns a region's locations with the already chosen
// source removed, so a trip cannot start and end at the same stop.
func DestinationLocations(r Region, source string) []string {
	locs := locationsByRegion[r]
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		if loc == source {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// Departure describes one departure board row. The board is mock data until
// live scheduling is integrated.
type Departure struct {
	ID             string `json:"id"`
	BusNumber      string `json:"busNumber"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	Fare           int    `json:"fare"`
	AvailableSeats int    `json:"availableSeats"`
}

// DepartureBoard returns the departures offered between two locations.
func DepartureBoard(source, destination string) []Departure {
	_ = source
	_ = destination
	return []Departure{
		{ID: "bus1", BusNumber: "CTU-101", DepartureTime: "10:00 AM", ArrivalTime: "10:45 AM", Fare: 30, AvailableSeats: 25},
		{ID: "bus2", BusNumber: "CTU-203", DepartureTime: "11:30 AM", ArrivalTime: "12:15 PM", Fare: 30, AvailableSeats: 18},
		{ID: "bus3", BusNumber: "CTU-305", DepartureTime: "01:00 PM", ArrivalTime: "01:45 PM", Fare: 30, AvailableSeats: 32},
	}
}

// BusType distinguishes air-conditioned from regular buses for passes.
type BusType string

const (
	BusAC    BusType = "ac"
	BusNonAC BusType = "nonac"
)

// ValidBusType reports whether t is a known bus type.
func ValidBusType(t BusType) bool {
	return t == BusAC || t == BusNonAC
}

// PassCategory identifies a purchasable travel pass kind.
type PassCategory string

const (
	PassDailyAC      PassCategory = "daily_ac"
	PassDailyNonAC   PassCategory = "daily_nonac"
	PassMonthlyAC    PassCategory = "monthly_ac"
	PassMonthlyNonAC PassCategory = "monthly_nonac"
	PassStudent      PassCategory = "student"
	PassSenior       PassCategory = "senior"
)

// PassType carries a pass category's pricing and document requirements.
type PassType struct {
	Name         string
	ValidityDays int
	Fare         int
	// Documents is the number of supporting documents required before the
	// pass can be purchased; zero means none.
	Documents int
}

var passTypes = map[PassCategory]PassType{
	PassDailyAC:      {Name: "Daily Pass (AC)", ValidityDays: 1, Fare: 60},
	PassDailyNonAC:   {Name: "Daily Pass (Non-AC)", ValidityDays: 1, Fare: 40},
	PassMonthlyAC:    {Name: "Monthly Pass (AC)", ValidityDays: 30, Fare: 800},
	PassMonthlyNonAC: {Name: "Monthly Pass (Non-AC)", ValidityDays: 30, Fare: 600},
	PassStudent:      {Name: "Student Pass", ValidityDays: 30, Fare: 300, Documents: 2},
	PassSenior:       {Name: "Senior Citizen Pass", ValidityDays: 30, Fare: 300, Documents: 1},
}

// PassInfo returns the pass type details for a category.
func PassInfo(cat PassCategory) (PassType, bool) {
	pt, ok := passTypes[cat]
	return pt, ok
}

// DailyPass maps a bus type to its daily pass category.
func DailyPass(t BusType) PassCategory {
	if t == BusAC {
		return PassDailyAC
	}
	return PassDailyNonAC
}

// MonthlyPass maps a bus type to its monthly pass category.
func MonthlyPass(t BusType) PassCategory {
	if t == BusAC {
		return PassMonthlyAC
	}
	return PassMonthlyNonAC
}
