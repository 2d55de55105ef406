package report

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// isoMillis matches what browsers send for Date.toISOString().
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// BuildQuery returns the form the reporting API receives for the current state.
func (v *View) BuildQuery() url.Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buildQuery()
}

func (v *View) buildQuery() url.Values {
	st := v.state
	q := url.Values{}

	q.Set("limit_rows", strconv.Itoa(st.PageSize))
	q.Set("page", strconv.Itoa(st.Page))
	q.Set("sort_field", st.Sort.Field)
	q.Set("sort_type", st.Sort.Direction.Wire())

	if st.Search != "" {
		q.Set("search", st.Search)
	}

	// Fields left on All are omitted; json.Marshal sorts the keys.
	if active := st.Filters.Active(); len(active) > 0 {
		if raw, err := json.Marshal(active); err == nil {
			q.Set("filter_field", string(raw))
		}
	}

	if v.Config.Tags {
		if tags := st.Tags.Selected(tagField); len(tags) > 0 {
			if raw, err := json.Marshal(tags); err == nil {
				q.Set("filter_tag", string(raw))
			}
		}
	}

	if v.Config.DateMode == DateDual {
		q.Set("date_type", string(st.DateType))
	}
	if v.Config.DateMode != DateNone {
		q.Set("date_start", isoInstant(st.Range.Min))
		q.Set("date_end", isoInstant(st.Range.Max))
	}

	if v.Session.AccountID != "" {
		q.Set("account_id", v.Session.AccountID)
	}
	return q
}

func isoInstant(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
