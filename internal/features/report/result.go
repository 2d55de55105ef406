package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseResult decodes a report response. Rows live under rowsKey, the
// plural entity name the endpoint answers with. Dates sent without a zone
// are read in loc.
func ParseResult(body []byte, rowsKey string, fetchedAt time.Time, loc *time.Location) (*Result, error) {
	if loc == nil {
		loc = time.UTC
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("report response is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	iface := root.Get("interface")
	if !iface.IsObject() {
		return nil, fmt.Errorf("report response has no interface block")
	}

	res := &Result{
		Rows:      []map[string]any{},
		FetchedAt: fetchedAt,
		Interface: InterfaceMeta{
			FilterWords: map[string][]string{},
			MaxPages:    int(iface.Get("max_pages").Int()),
			RowsStart:   int(iface.Get("rows_start").Int()),
			RowsEnd:     int(iface.Get("rows_end").Int()),
			RowsAll:     int(iface.Get("rows_all").Int()),
			MinDate:     parseServerTime(iface.Get("min_date"), loc),
			MaxDate:     parseServerTime(iface.Get("max_date"), loc),
		},
	}

	iface.Get("filter_words").ForEach(func(field, words gjson.Result) bool {
		res.Interface.FilterWords[field.String()] = stringList(words)
		return true
	})
	if tags := iface.Get("tag_words"); tags.IsArray() {
		res.Interface.TagWords = stringList(tags)
	}

	if rows := root.Get(gjson.Escape(rowsKey)); rows.IsArray() {
		if err := json.Unmarshal([]byte(rows.Raw), &res.Rows); err != nil {
			return nil, fmt.Errorf("decode %s rows: %w", rowsKey, err)
		}
	}

	for key, dst := range map[string]*map[string]any{"permissions": &res.Permissions, "dashboard": &res.Dashboard} {
		if block := root.Get(key); block.IsObject() {
			if err := json.Unmarshal([]byte(block.Raw), dst); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}

	return res, nil
}

func stringList(arr gjson.Result) []string {
	out := []string{}
	arr.ForEach(func(_, w gjson.Result) bool {
		if s := w.String(); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func parseServerTime(v gjson.Result, loc *time.Location) *time.Time {
	if v.Type != gjson.String || v.String() == "" {
		return nil
	}
	for _, layout := range serverTimeLayouts {
		if t, err := time.ParseInLocation(layout, v.String(), loc); err == nil {
			return &t
		}
	}
	return nil
}
