package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"goldprice/internal/domain"
)

func malformed(format string, args ...any) error {
	return &domain.MalformedResponseError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeBatch extracts the "data" array of a price response. Records keep the
// key order of the payload; only scalar values are accepted.
func DecodeBatch(r io.Reader) (domain.Batch, error) {
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, malformed("invalid json: %v", err)
	}
	raw, ok := envelope["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, malformed("missing data")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("read data: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, malformed("data is not an array")
	}

	batch := domain.Batch{}
	for dec.More() {
		rec, err := decodeRecord(dec, len(batch))
		if err != nil {
			return nil, err
		}
		batch = append(batch, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed("read data: %v", err)
	}
	return batch, nil
}

func decodeRecord(dec *json.Decoder, i int) (domain.Record, error) {
	var rec domain.Record
	tok, err := dec.Token()
	if err != nil {
		return rec, malformed("read data[%d]: %v", i, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return rec, malformed("data[%d] is not an object", i)
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return rec, malformed("read data[%d]: %v", i, err)
		}
		key, _ := kt.(string)
		vt, err := dec.Token()
		if err != nil {
			return rec, malformed("read data[%d].%s: %v", i, key, err)
		}
		switch v := vt.(type) {
		case string:
			rec.Set(key, domain.String(v))
		case json.Number:
			rec.Set(key, domain.Number(v.String()))
		case bool:
			rec.Set(key, domain.Bool(v))
		case nil:
			rec.Set(key, domain.Null())
		default:
			return rec, malformed("data[%d].%s is not a scalar", i, key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return rec, malformed("read data[%d]: %v", i, err)
	}
	return rec, nil
}
