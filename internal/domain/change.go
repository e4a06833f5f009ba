package domain

// FieldDelta is the day-over-day movement of one numeric field.
type FieldDelta struct {
	Field    string  `json:"field"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
}

// Change lists the numeric movements of the product identified by Key.
type Change struct {
	Key    string       `json:"key"`
	Deltas []FieldDelta `json:"deltas"`
}

// Changes pairs records of current and previous by keyField and reports the
// delta of every field that is a finite number on both sides. Products missing
// from previous, or without any numeric field in common, are skipped.
func Changes(current, previous Snapshot, keyField string) []Change {
	prev := make(map[string]Record, len(previous.Records))
	for _, r := range previous.Records {
		if k, ok := r.Get(keyField); ok {
			if _, seen := prev[k.String()]; !seen {
				prev[k.String()] = r
			}
		}
	}

	var out []Change
	for _, r := range current.Records {
		k, ok := r.Get(keyField)
		if !ok {
			continue
		}
		p, ok := prev[k.String()]
		if !ok {
			continue
		}
		c := Change{Key: k.String()}
		for _, f := range r.Fields() {
			if f.Key == keyField {
				continue
			}
			cur, ok := f.Value.Float()
			if !ok {
				continue
			}
			pv, ok := p.Get(f.Key)
			if !ok {
				continue
			}
			before, ok := pv.Float()
			if !ok {
				continue
			}
			c.Deltas = append(c.Deltas, FieldDelta{Field: f.Key, Current: cur, Previous: before, Delta: cur - before})
		}
		if len(c.Deltas) > 0 {
			out = append(out, c)
		}
	}
	return out
}
