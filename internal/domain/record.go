package domain

import (
	"bytes"
	"encoding/json"
)

type Field struct {
	Key   string
	Value Value
}

// Record is an ordered mapping of field name to scalar value.
// Keys keep the position of their first insertion.
type Record struct {
	fields []Field
	index  map[string]int
}

func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

func (r *Record) Set(key string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

func (r Record) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

func (r Record) Len() int { return len(r.fields) }

func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Row lays the record out under columns. The DateColumn cell is always date;
// columns the record lacks are left empty.
func (r Record) Row(date string, columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		if c == DateColumn {
			row[i] = date
			continue
		}
		if v, ok := r.Get(c); ok {
			row[i] = v.String()
		}
	}
	return row
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Batch is the set of records returned by one fetch, in source order.
type Batch []Record

// Header returns the CSV header for the batch: DateColumn followed by the
// keys of the first record. A record key equal to DateColumn is not repeated.
func (b Batch) Header() ([]string, error) {
	if len(b) == 0 {
		return nil, ErrEmptyBatch
	}
	header := []string{DateColumn}
	for _, k := range b[0].Keys() {
		if k == DateColumn {
			continue
		}
		header = append(header, k)
	}
	return header, nil
}
