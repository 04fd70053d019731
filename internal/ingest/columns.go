package ingest

import (
	"regexp"
	"strings"
)

var (
	latPattern   = regexp.MustCompile(`(?i)^(lat|latitude|pos_lat)$`)
	lonPattern   = regexp.MustCompile(`(?i)^(lon|lng|long|longitude|pos_long)$`)
	timePattern  = regexp.MustCompile(`(?i)^(time|utc|date|timestamp)$`)
	speedPattern = regexp.MustCompile(`(?i)^(speed|spd|gps_speed|speed_kmh)$`)
	gLatPattern  = regexp.MustCompile(`(?i)^(lat_g|g_lat|accel_x|x_g)$`)
	gLonPattern  = regexp.MustCompile(`(?i)^(lon_g|g_lon|accel_y|y_g)$`)
	fixPattern   = regexp.MustCompile(`(?i)^(fix|gps_fix|quality|status)$`)

	headerSplit = regexp.MustCompile(`[,;]`)
)

// ColumnMap names the header column used for each channel. Empty means the
// log does not carry that channel.
type ColumnMap struct {
	Lat   string
	Lon   string
	Time  string
	Speed string
	GLat  string
	GLon  string
	Fix   string
}

// MatchColumns picks the first header name matching each channel. ok is
// false unless both a latitude and a longitude column were found.
func MatchColumns(header []string) (ColumnMap, bool) {
	first := func(re *regexp.Regexp) string {
		for _, h := range header {
			if re.MatchString(h) {
				return h
			}
		}
		return ""
	}

	cols := ColumnMap{
		Lat:   first(latPattern),
		Lon:   first(lonPattern),
		Time:  first(timePattern),
		Speed: first(speedPattern),
		GLat:  first(gLatPattern),
		GLon:  first(gLonPattern),
		Fix:   first(fixPattern),
	}
	return cols, cols.Lat != "" && cols.Lon != ""
}

// splitHeaderLine splits a candidate header on either delimiter, trimming
// whitespace and one layer of surrounding quotes from each name.
func splitHeaderLine(line string) []string {
	parts := headerSplit.Split(strings.TrimSpace(line), -1)
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return parts
}

func unquote(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
