// Package geoip resolves client addresses to geolocation and network
// metadata, deduplicating remote lookups by /24 subnet and caching results
// for the process lifetime.
package geoip

import (
	"github.com/goccy/go-json"
)

// Record is the structured metadata returned for one cache key. It mirrors
// the ip-api.com JSON field set: location, network ownership, and the three
// threat flags. Records are immutable once stored.
type Record struct {
	Query         string  `json:"query,omitempty"`
	Status        string  `json:"status"`
	Message       string  `json:"message,omitempty"`
	Continent     string  `json:"continent,omitempty"`
	ContinentCode string  `json:"continentCode,omitempty"`
	Country       string  `json:"country,omitempty"`
	CountryCode   string  `json:"countryCode,omitempty"`
	Region        string  `json:"region,omitempty"`
	RegionName    string  `json:"regionName,omitempty"`
	City          string  `json:"city,omitempty"`
	District      string  `json:"district,omitempty"`
	Zip           string  `json:"zip,omitempty"`
	Lat           float64 `json:"lat,omitempty"`
	Lon           float64 `json:"lon,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	Offset        int     `json:"offset,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	ISP           string  `json:"isp,omitempty"`
	Org           string  `json:"org,omitempty"`
	AS            string  `json:"as,omitempty"`
	ASName        string  `json:"asname,omitempty"`
	Mobile        bool    `json:"mobile"`
	Proxy         bool    `json:"proxy"`
	Hosting       bool    `json:"hosting"`
}

// statusSuccess is the API's status value for a usable response.
const statusSuccess = "success"

// PrettyJSON renders the record as indented JSON for detail display.
func (r *Record) PrettyJSON() string {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
