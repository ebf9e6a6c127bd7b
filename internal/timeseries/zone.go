package timeseries

import (
	"fmt"
	"strings"
)

// Zone identifies a load series: the whole country or one bidding zone.
type Zone string

const (
	ZoneSETotal Zone = "SE_total"
	ZoneSE1     Zone = "SE1"
	ZoneSE2     Zone = "SE2"
	ZoneSE3     Zone = "SE3"
	ZoneSE4     Zone = "SE4"
)

// areaCodes maps zones to their ENTSO-E EIC area codes.
var areaCodes = map[Zone]string{
	ZoneSETotal: "10YSE-1--------K",
	ZoneSE1:     "10Y1001A1001A44P",
	ZoneSE2:     "10Y1001A1001A45N",
	ZoneSE3:     "10Y1001A1001A46L",
	ZoneSE4:     "10Y1001A1001A47J",
}

// ZoneOrder is the canonical chart/legend ordering, country total first.
var ZoneOrder = []Zone{ZoneSETotal, ZoneSE1, ZoneSE2, ZoneSE3, ZoneSE4}

// AreaCode returns the EIC code for the zone.
func (z Zone) AreaCode() (string, error) {
	code, ok := areaCodes[z]
	if !ok {
		return "", fmt.Errorf("unknown zone %q", z)
	}
	return code, nil
}

func (z Zone) String() string { return string(z) }

// rank returns the position of z in ZoneOrder; unknown zones sort last.
func (z Zone) rank() int {
	for i, known := range ZoneOrder {
		if z == known {
			return i
		}
	}
	return len(ZoneOrder)
}

// ParseZones parses a comma-separated zone list (e.g. "SE_total,SE3").
func ParseZones(s string) ([]Zone, error) {
	parts := strings.Split(s, ",")
	zones := make([]Zone, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		z := Zone(name)
		if _, ok := areaCodes[z]; !ok {
			return nil, fmt.Errorf("unknown zone %q", name)
		}
		zones = append(zones, z)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("empty zone list")
	}
	return zones, nil
}
