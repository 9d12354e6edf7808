package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// ErrorCount is one entry of an ErrorFrequency.
type ErrorCount struct {
	Tag   ErrorTag `json:"tag"`
	Count int      `json:"count"`
}

// ErrorFrequency counts occurrences per error tag. Entries keep the order in
// which each tag was first recorded, which breaks ties when ranking.
// It serializes as a JSON object whose keys appear in that order.
type ErrorFrequency []ErrorCount

// Inc increments the count for tag, appending it on first sight.
func (f *ErrorFrequency) Inc(tag ErrorTag) {
	for i := range *f {
		if (*f)[i].Tag == tag {
			(*f)[i].Count++
			return
		}
	}
	*f = append(*f, ErrorCount{Tag: tag, Count: 1})
}

// Get returns the count for tag, or 0.
func (f ErrorFrequency) Get(tag ErrorTag) int {
	for _, e := range f {
		if e.Tag == tag {
			return e.Count
		}
	}
	return 0
}

// Total returns the sum of all counts.
func (f ErrorFrequency) Total() int {
	total := 0
	for _, e := range f {
		total += e.Count
	}
	return total
}

// Top returns up to n entries by descending count. Equal counts keep
// insertion order. n <= 0 returns every entry.
func (f ErrorFrequency) Top(n int) ErrorFrequency {
	sorted := slices.Clone(f)
	slices.SortStableFunc(sorted, func(a, b ErrorCount) int {
		return b.Count - a.Count
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Tags returns the tags in entry order.
func (f ErrorFrequency) Tags() []ErrorTag {
	tags := make([]ErrorTag, len(f))
	for i, e := range f {
		tags[i] = e.Tag
	}
	return tags
}

// MostFrequent returns the tag with the highest count. The first tag to reach
// the maximum wins. ok is false when f is empty.
func (f ErrorFrequency) MostFrequent() (tag ErrorTag, count int, ok bool) {
	for _, e := range f {
		if !ok || e.Count > count {
			tag, count, ok = e.Tag, e.Count, true
		}
	}
	return tag, count, ok
}

// Merge adds every count in other into f.
func (f *ErrorFrequency) Merge(other ErrorFrequency) {
	for _, e := range other {
		found := false
		for i := range *f {
			if (*f)[i].Tag == e.Tag {
				(*f)[i].Count += e.Count
				found = true
				break
			}
		}
		if !found {
			*f = append(*f, e)
		}
	}
}

// MarshalJSON encodes f as an ordered JSON object.
func (f ErrorFrequency) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.Tag))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (f *ErrorFrequency) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("error frequency: expected object, got %v", tok)
	}
	var out ErrorFrequency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("error frequency: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("error frequency %q: %w", key, err)
		}
		out = append(out, ErrorCount{Tag: ErrorTag(key), Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}
