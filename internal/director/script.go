package director

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ivlev/promo2video/internal/failure"
)

// SectionKind drives the background, text color and decoration of a
// script section
type SectionKind string

const (
	SectionOpening SectionKind = "opening"
	SectionMain    SectionKind = "main"
	SectionClosing SectionKind = "closing"
)

const (
	wordsPerMinute     = 150
	minSectionDuration = 5.0 // seconds
)

// Section is one segment of a free-text script
type Section struct {
	Label    string
	Kind     SectionKind
	Body     string
	Duration float64 // seconds
	Start    float64 // explicit start, valid when Timed
	End      float64
	Timed    bool
	Marked   bool // came from a bracketed marker, so the label is shown
}

// TimestampError identifies a marker whose timestamps cannot be used
type TimestampError struct {
	Marker string
	Value  string
	Reason string
}

func (e *TimestampError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("marker [%s]: %s", e.Marker, e.Reason)
	}
	return fmt.Sprintf("marker [%s]: timestamp %q: %s", e.Marker, e.Value, e.Reason)
}

var (
	markerRe    = regexp.MustCompile(`\[([^\]\n]+)\]`)
	partSep     = regexp.MustCompile(`\s+-\s+`)
	timestampRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	paragraphRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// ParseTimestamp parses m:ss or mm:ss into seconds
func ParseTimestamp(s string) (float64, error) {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.New("expected m:ss or mm:ss")
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds >= 60 {
		return 0, errors.New("seconds must be below 60")
	}
	return float64(minutes*60 + seconds), nil
}

// EstimateDuration returns the speaking time of text at 150 words per
// minute, never below five seconds
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	return math.Max(minSectionDuration, float64(words)/wordsPerMinute*60)
}

// ClassifyLabel maps a section label to its kind by keyword
func ClassifyLabel(label string) SectionKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "intro"), strings.Contains(l, "opening"):
		return SectionOpening
	case strings.Contains(l, "closing"), strings.Contains(l, "cta"), strings.Contains(l, "call to action"):
		return SectionClosing
	default:
		return SectionMain
	}
}

// SegmentScript splits a script into timed sections. Bracketed markers
// take precedence; without any, blank-line paragraphs share target evenly.
func SegmentScript(script string, target float64) ([]Section, error) {
	script = strings.ReplaceAll(script, "\r\n", "\n")
	locs := markerRe.FindAllStringSubmatchIndex(script, -1)
	if len(locs) == 0 {
		return segmentParagraphs(script, target)
	}

	var sections []Section
	if pre := strings.TrimSpace(script[:locs[0][0]]); pre != "" {
		sections = append(sections, Section{
			Label:    "Opening",
			Kind:     SectionOpening,
			Body:     pre,
			Duration: EstimateDuration(pre),
		})
	}

	for i, loc := range locs {
		end := len(script)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sec, err := parseMarker(script[loc[2]:loc[3]])
		if err != nil {
			return nil, failure.Configuration("segment script", err)
		}
		sec.Body = strings.TrimSpace(script[loc[1]:end])
		if !sec.Timed {
			sec.Duration = EstimateDuration(sec.Body)
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// parseMarker reads "LABEL", "LABEL - mm:ss - mm:ss". A trailing part that
// starts with a digit, or follows a valid start timestamp, is taken as a
// timestamp and must parse.
func parseMarker(raw string) (Section, error) {
	marker := strings.TrimSpace(raw)
	parts := partSep.Split(marker, -1)
	n := len(parts)

	timed := n >= 2 && startsWithDigit(parts[n-1])
	// a valid start makes the trailing part an end timestamp, whatever it looks like
	if n >= 3 && timestampRe.MatchString(parts[n-2]) {
		timed = true
	}
	if !timed {
		label := strings.Join(parts, " - ")
		return Section{Label: label, Kind: ClassifyLabel(label), Marked: true}, nil
	}
	if n == 2 {
		return Section{}, &TimestampError{Marker: marker, Value: parts[1], Reason: "start and end timestamps are both required"}
	}

	label := strings.Join(parts[:n-2], " - ")
	start, err := ParseTimestamp(parts[n-2])
	if err != nil {
		return Section{}, &TimestampError{Marker: marker, Value: parts[n-2], Reason: err.Error()}
	}
	end, err := ParseTimestamp(parts[n-1])
	if err != nil {
		return Section{}, &TimestampError{Marker: marker, Value: parts[n-1], Reason: err.Error()}
	}
	if end <= start {
		return Section{}, &TimestampError{Marker: marker, Reason: "end must be after start"}
	}

	return Section{
		Label:    label,
		Kind:     ClassifyLabel(label),
		Start:    start,
		End:      end,
		Duration: end - start,
		Timed:    true,
		Marked:   true,
	}, nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func segmentParagraphs(script string, target float64) ([]Section, error) {
	var paragraphs []string
	for _, p := range paragraphRe.Split(script, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil, failure.Configuration("segment script", errors.New("script has no text"))
	}

	sections := make([]Section, len(paragraphs))
	for i, p := range paragraphs {
		label := fmt.Sprintf("Part %d", i+1)
		d := target / float64(len(paragraphs))
		if target <= 0 {
			d = EstimateDuration(p)
		}
		sections[i] = Section{Label: label, Kind: ClassifyLabel(label), Body: p, Duration: d}
	}
	return sections, nil
}
