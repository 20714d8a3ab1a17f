package adapter

import (
	"strings"
	"time"
)

// str returns the first non-empty string among the named keys. Platforms
// rename fields between API versions; the ordered candidate list absorbs that.
func (p Payload) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// nestedStr resolves a dotted path like "company.name".
func (p Payload) nestedStr(path string) string {
	parts := strings.Split(path, ".")
	var cur any = map[string]any(p)
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok {
			return ""
		}
	}
	if s, ok := cur.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// date parses the first key whose value parses as a date; unparseable or
// missing values resolve to nil, never an error.
func (p Payload) date(keys ...string) *time.Time {
	for _, k := range keys {
		s := p.str(k)
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

// yearMonth handles LinkedIn-style {year, month} date objects.
func (p Payload) yearMonth(key string) *time.Time {
	v, ok := p[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	year, ok := asInt(m["year"])
	if !ok || year <= 0 {
		return nil
	}
	month, ok := asInt(m["month"])
	if !ok || month < 1 || month > 12 {
		month = 1
	}
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
