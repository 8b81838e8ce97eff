package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Counter field names in backend payloads.
const (
	fieldEntered = "entered"
	fieldExited  = "exited"
	fieldInside  = "inside"
)

// hallCounts is one hall's counters keyed by field, then camera id.
type hallCounts map[string]map[string]json.RawMessage

// DecodeCounts decodes either payload shape into a snapshot. Counter
// values that are not non-negative integers are dropped, so the store
// keeps its previous value for them.
func DecodeCounts(data []byte, defaultHall string) (domain.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}

	snap := domain.Snapshot{}
	if isHallCounts(top) {
		hc, err := decodeHall(top)
		if err != nil {
			return nil, err
		}
		addHall(snap, defaultHall, hc)
		return snap, nil
	}

	for hallID, raw := range top {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode hall %q: %w", hallID, err)
		}
		hc, err := decodeHall(fields)
		if err != nil {
			return nil, fmt.Errorf("decode hall %q: %w", hallID, err)
		}
		addHall(snap, hallID, hc)
	}
	return snap, nil
}

// isHallCounts reports whether the object is a single hall's counters:
// non-empty with only counter field keys.
func isHallCounts(obj map[string]json.RawMessage) bool {
	if len(obj) == 0 {
		return false
	}
	for k := range obj {
		switch k {
		case fieldEntered, fieldExited, fieldInside:
		default:
			return false
		}
	}
	return true
}

func decodeHall(fields map[string]json.RawMessage) (hallCounts, error) {
	hc := hallCounts{}
	for _, f := range []string{fieldEntered, fieldExited, fieldInside} {
		raw, ok := fields[f]
		if !ok || isNull(raw) {
			continue
		}
		var cams map[string]json.RawMessage
		if err := json.Unmarshal(raw, &cams); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f, err)
		}
		hc[f] = cams
	}
	return hc, nil
}

// addHall records the hall even when it reports no cameras so that the
// store learns about it.
func addHall(snap domain.Snapshot, hallID string, hc hallCounts) {
	if _, ok := snap[hallID]; !ok {
		snap[hallID] = make(map[string]domain.Reading)
	}

	for field, cams := range hc {
		for camID, raw := range cams {
			v, ok := parseCount(raw)
			r := snap[hallID][camID]
			if ok {
				switch field {
				case fieldEntered:
					r.Entered = &v
				case fieldExited:
					r.Exited = &v
				case fieldInside:
					r.Inside = &v
				}
			}
			snap[hallID][camID] = r
		}
	}
}

func parseCount(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
