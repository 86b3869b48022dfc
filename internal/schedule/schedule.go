package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day in 24-hour form.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour %d out of range", c.Hour)
	}
	if c.Minute > 59 {
		return fmt.Errorf("minute %d out of range", c.Minute)
	}
	return nil
}

// Entry is one parsed class meeting: a weekday plus start and end times.
type Entry struct {
	Day   time.Weekday
	Start ClockTime
	End   ClockTime
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseSchedule parses a raw schedule string in lenient mode, for calendar
// export. Tokens that do not match the `Day(Start-End[-extras])` grammar
// contribute zero entries; no error is ever returned, since catalog data is
// known to be inconsistently formatted. Day words that are not a weekday name
// map to Sunday, matching what the catalog has historically produced.
func ParseSchedule(raw string) []Entry {
	entries := make([]Entry, 0)
	for _, tok := range splitTokens(raw) {
		t, err := scanToken(tok)
		if err != nil {
			continue
		}
		day, ok := weekdays[strings.ToLower(t.day)]
		if !ok {
			day = time.Sunday
		}
		entries = append(entries, Entry{Day: day, Start: t.start, End: t.end})
	}
	return entries
}

// ParseScheduleStrict parses the same grammar but reports the first problem
// instead of dropping it. Intended for validation and tests, never for the
// export path.
func ParseScheduleStrict(raw string) ([]Entry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty schedule")
	}
	var entries []Entry
	for _, tok := range splitTokens(raw) {
		t, err := scanToken(tok)
		if err != nil {
			return nil, err
		}
		day, ok := weekdays[strings.ToLower(t.day)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", t.day)
		}
		if err := t.start.validate(); err != nil {
			return nil, fmt.Errorf("bad start time in %q: %w", tok, err)
		}
		if err := t.end.validate(); err != nil {
			return nil, fmt.Errorf("bad end time in %q: %w", tok, err)
		}
		entries = append(entries, Entry{Day: day, Start: t.start, End: t.end})
	}
	return entries, nil
}

// FormatSchedule renders a raw schedule string for human display. Well-formed
// tokens become "Day H:MM AM-H:MM PM"; tokens that do not match are preserved
// verbatim rather than dropped, so odd catalog rows stay visible to the user.
// This path must never be used for calendar export.
func FormatSchedule(raw string) string {
	if raw == "" {
		return "Schedule TBA"
	}
	tokens := splitTokens(raw)
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		t, err := scanToken(tok)
		if err != nil {
			parts = append(parts, tok)
			continue
		}
		parts = append(parts, NormalizeDay(t.day)+" "+t.startRaw+"-"+t.endRaw)
	}
	return strings.Join(parts, ", ")
}

// Days lists the distinct normalized day names appearing in raw, in first-seen
// order. Tokens without a day group are skipped.
func Days(raw string) []string {
	if raw == "" {
		return nil
	}
	var days []string
	seen := make(map[string]bool)
	for _, tok := range splitTokens(raw) {
		open := strings.IndexByte(tok, '(')
		if open <= 0 {
			continue
		}
		word := trailingWord(tok[:open])
		if word == "" {
			continue
		}
		day := NormalizeDay(word)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

// RoomFromSchedule pulls a room hint out of a schedule string: the first run
// of characters between a dash and a closing parenthesis with no comma in
// between. Returns "TBA" when the string carries no such field. Only used as
// a fallback when the catalog record has no room name.
func RoomFromSchedule(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '-' {
			continue
		}
		j := i + 1
		for j < len(raw) && raw[j] != ',' && raw[j] != ')' {
			j++
		}
		if j > i+1 && j < len(raw) && raw[j] == ')' {
			return raw[i+1 : j]
		}
	}
	return "TBA"
}

// NormalizeDay capitalizes the first letter and lowercases the remainder,
// regardless of input casing.
func NormalizeDay(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// splitTokens splits on newline if the string contains one, else on comma.
// Both delimiters occur in the wild: the upstream feed uses newlines, the
// cached canonical form uses commas.
func splitTokens(raw string) []string {
	sep := ","
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}
	return strings.Split(raw, sep)
}

// token is one scanned schedule token before weekday resolution. The raw time
// substrings are kept because the display path echoes them untouched.
type token struct {
	day      string
	startRaw string
	endRaw   string
	start    ClockTime
	end      ClockTime
}

// scanToken parses one `Day(Start-End[-extras])` token. The day is the run of
// word characters immediately before the opening parenthesis; the first
// `H:MM AM-H:MM PM` range inside the parentheses wins and trailing room
// fields are ignored.
func scanToken(tok string) (token, error) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 {
		return token{}, fmt.Errorf("missing day/time group in %q", tok)
	}
	day := trailingWord(tok[:open])
	if day == "" {
		return token{}, fmt.Errorf("missing day name in %q", tok)
	}
	rel := strings.IndexByte(tok[open+1:], ')')
	if rel < 0 {
		return token{}, fmt.Errorf("unterminated day/time group in %q", tok)
	}
	inner := tok[open+1 : open+1+rel]
	t, ok := findTimeRange(inner)
	if !ok {
		return token{}, fmt.Errorf("no time range in %q", tok)
	}
	t.day = day
	return t, nil
}

// findTimeRange scans s for the first `H:MM AM-H:MM PM` occurrence.
func findTimeRange(s string) (token, bool) {
	for i := 0; i < len(s); i++ {
		start, n, ok := scanClock(s[i:])
		if !ok {
			continue
		}
		dash := i + n
		if dash >= len(s) || s[dash] != '-' {
			continue
		}
		end, m, ok := scanClock(s[dash+1:])
		if !ok {
			continue
		}
		return token{
			startRaw: s[i:dash],
			endRaw:   s[dash+1 : dash+1+m],
			start:    start,
			end:      end,
		}, true
	}
	return token{}, false
}

// scanClock matches `H:MM AM` or `H:MM PM` at the start of s and returns the
// 24-hour clock time plus the number of bytes consumed.
func scanClock(s string) (ClockTime, int, bool) {
	i := 0
	for i < len(s) && i < 2 && isDigit(s[i]) {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != ':' {
		return ClockTime{}, 0, false
	}
	hour := digitsVal(s[:i])
	i++
	if i+1 >= len(s) || !isDigit(s[i]) || !isDigit(s[i+1]) {
		return ClockTime{}, 0, false
	}
	minute := digitsVal(s[i : i+2])
	i += 2
	if i+2 >= len(s) || s[i] != ' ' || s[i+2] != 'M' {
		return ClockTime{}, 0, false
	}
	var pm bool
	switch s[i+1] {
	case 'A':
		pm = false
	case 'P':
		pm = true
	default:
		return ClockTime{}, 0, false
	}
	i += 3

	// 12:xx AM is midnight, 12:xx PM stays noon, other PM hours shift by 12.
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return ClockTime{Hour: hour, Minute: minute}, i, true
}

// trailingWord returns the run of word characters at the end of s.
func trailingWord(s string) string {
	i := len(s)
	for i > 0 && isWordByte(s[i-1]) {
		i--
	}
	return s[i:]
}

func isWordByte(b byte) bool {
	return b == '_' ||
		b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func digitsVal(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
