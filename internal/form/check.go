package form

import (
	"fmt"
	"sort"
)

// Snapshot is a form as seen by the browser at one moment. Changed names the
// field the user just edited so derivations run as they would while typing.
type Snapshot struct {
	Mode    Mode                `json:"mode"`
	Values  map[string]string   `json:"values"`
	Arrays  map[string][]string `json:"arrays,omitempty"`
	Toggles map[string]bool     `json:"toggles,omitempty"`
	Touched []string            `json:"touched,omitempty"`
	Changed string              `json:"changed,omitempty"`
	Submit  bool                `json:"submit"`
}

// Report is the outcome of checking a snapshot.
type Report struct {
	Values      map[string]string `json:"values"`
	Errors      map[string]string `json:"errors"`
	Valid       bool              `json:"valid"`
	ScrollToTop bool              `json:"scroll_to_top"`
}

// Check replays snapshot against a fresh form of kind and reports the
// resulting values and visible errors.
func Check(kind Kind, snap Snapshot) (*Report, error) {
	mode := snap.Mode
	if mode == "" {
		mode = ModeCreate
	}
	st, err := New(kind, mode)
	if err != nil {
		return nil, err
	}
	st.Load(snap.Values, snap.Arrays, snap.Toggles)
	if snap.Changed != "" {
		if !st.hasField(snap.Changed) {
			return nil, fmt.Errorf("unknown field %q", snap.Changed)
		}
		st.SetValue(snap.Changed, snap.Values[snap.Changed])
	}
	for _, f := range snap.Touched {
		st.Blur(f)
	}

	report := &Report{}
	if snap.Submit {
		err := st.Submit()
		report.Valid = err == nil
		report.ScrollToTop = st.TakeScrollToTop()
	} else {
		report.Valid = len(st.validate()) == 0
	}
	report.Errors = st.Errors()

	report.Values = make(map[string]string, len(st.schema.Fields))
	keys := append([]string(nil), st.schema.Fields...)
	sort.Strings(keys)
	for _, f := range keys {
		report.Values[f] = st.values[f]
	}
	return report, nil
}
