package thanosql

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sort"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ToArrowBatch converts the records into a single Arrow record batch.
//
// The schema is inferred from the records: columns are the union of the
// record keys in lexical order, typed from the first non-null value
// (boolean, float64 or string). Values of any other shape are embedded
// as JSON strings. Release the returned record when done with it.
func (r *Records) ToArrowBatch() (arrow.Record, error) {
	fields, err := r.inferFields()
	if err != nil {
		return nil, err
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for _, record := range r.Records {
		for i, f := range fields {
			v, ok := record[f.Name]
			if !ok || v == nil {
				b.Field(i).AppendNull()
				continue
			}
			if err := appendValue(b.Field(i), v); err != nil {
				return nil, err
			}
		}
	}
	return b.NewRecord(), nil
}

func (r *Records) inferFields() ([]arrow.Field, error) {
	if len(r.Records) == 0 {
		return nil, errors.New("cannot infer a schema from zero records")
	}

	names := make(map[string]bool)
	for _, record := range r.Records {
		for name := range record {
			names[name] = true
		}
	}
	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	fields := make([]arrow.Field, 0, len(ordered))
	for _, name := range ordered {
		typ := arrow.DataType(arrow.BinaryTypes.String)
		for _, record := range r.Records {
			v, ok := record[name]
			if !ok || v == nil {
				continue
			}
			switch v.(type) {
			case bool:
				typ = arrow.FixedWidthTypes.Boolean
			case float64:
				typ = arrow.PrimitiveTypes.Float64
			}
			break
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ, Nullable: true})
	}
	return fields, nil
}

func appendValue(b array.Builder, v any) error {
	switch b := b.(type) {
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			b.AppendNull()
			return nil
		}
		b.Append(bv)
	case *array.Float64Builder:
		fv, ok := v.(float64)
		if !ok {
			b.AppendNull()
			return nil
		}
		b.Append(fv)
	case *array.StringBuilder:
		if s, ok := v.(string); ok {
			b.Append(s)
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.Append(string(data))
	default:
		b.AppendNull()
	}
	return nil
}

// EncodeArrowBatches encodes the given record batches into a base64
// encoded Arrow IPC payload.
func EncodeArrowBatches(batches []arrow.Record) (payload []byte, err error) {
	if len(batches) == 0 {
		return nil, errors.New("cannot encode empty batches")
	}

	var buf bytes.Buffer
	defer func() {
		if err == nil {
			payload = buf.Bytes()
		}
	}()

	encoder := base64.NewEncoder(base64.StdEncoding, &buf)
	defer func() {
		err = errors.Join(err, encoder.Close())
	}()

	schema := batches[0].Schema()
	writer := ipc.NewWriter(encoder, ipc.WithSchema(schema))
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	for _, batch := range batches {
		if err := writer.Write(batch); err != nil {
			return nil, err
		}
	}
	return
}

// DecodeArrowBatches decodes a base64 encoded Arrow IPC payload into
// record batches.
func DecodeArrowBatches(data []byte) ([]arrow.Record, error) {
	decoder := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(data))
	reader, err := ipc.NewReader(decoder, ipc.WithDelayReadSchema(true))
	if err != nil {
		return nil, err
	}

	batches := make([]arrow.Record, 0)
	for reader.Next() {
		batch := reader.Record()
		batch.Retain()
		batches = append(batches, batch)
	}
	return batches, nil
}
