package app

import "strings"

// Route segments.
const (
	SegmentHome          = "home"
	SegmentJuz           = "juz"
	SegmentSurah         = "surah"
	SegmentRandom        = "random"
	SegmentAbout         = "about"
	SegmentAddRecitation = "addRecitation"
	SegmentMostLiked     = "mostLiked"
	SegmentSearch        = "search"
)

// Route is the addressable view: a segment plus an optional parameter.
type Route struct {
	Segment string
	Param   string
}

// ParseRoute splits raw on its first "/". Leading "#" and surrounding
// slashes are ignored; an empty route is home.
func ParseRoute(raw string) Route {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return Route{Segment: SegmentHome}
	}
	segment, param, _ := strings.Cut(raw, "/")
	return Route{Segment: segment, Param: param}
}

func (r Route) String() string {
	if r.Param == "" {
		return r.Segment
	}
	return r.Segment + "/" + r.Param
}
