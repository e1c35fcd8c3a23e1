package thanosql

import (
	"encoding/json"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"
)

func TestRecordsUnmarshalBareList(t *testing.T) {
	var records Records
	require.NoError(t, json.Unmarshal([]byte(`[{"a": 1}, {"a": 2}]`), &records))
	require.Equal(t, 2, records.Total)
	require.Len(t, records.Records, 2)
}

func TestRecordsUnmarshalObject(t *testing.T) {
	var records Records
	require.NoError(t, json.Unmarshal([]byte(`{"records": [{"a": 1}], "total": 42}`), &records))
	require.Equal(t, 42, records.Total)
	require.Len(t, records.Records, 1)
}

func TestRecordsToArrowBatch(t *testing.T) {
	records := &Records{
		Records: []map[string]any{
			{"active": true, "amount": 10.5, "region": "seoul", "meta": map[string]any{"k": 1}},
			{"active": false, "amount": 7.0, "region": nil, "meta": nil},
		},
		Total: 2,
	}

	batch, err := records.ToArrowBatch()
	require.NoError(t, err)
	defer batch.Release()

	require.EqualValues(t, 2, batch.NumRows())
	require.EqualValues(t, 4, batch.NumCols())

	schema := batch.Schema()
	require.Equal(t, []string{"active", "amount", "meta", "region"}, fieldNames(schema))
	require.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(0).Type)
	require.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(1).Type)
	require.Equal(t, arrow.BinaryTypes.String, schema.Field(2).Type)
	require.Equal(t, arrow.BinaryTypes.String, schema.Field(3).Type)
}

func TestRecordsToArrowBatchEmpty(t *testing.T) {
	records := &Records{}
	_, err := records.ToArrowBatch()
	require.Error(t, err)
}

func TestArrowEncodeDecodeRoundTrip(t *testing.T) {
	records := &Records{
		Records: []map[string]any{
			{"id": 1.0, "name": "a"},
			{"id": 2.0, "name": "b"},
		},
		Total: 2,
	}

	batch, err := records.ToArrowBatch()
	require.NoError(t, err)
	defer batch.Release()

	payload, err := EncodeArrowBatches([]arrow.Record{batch})
	require.NoError(t, err)

	decoded, err := DecodeArrowBatches(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	defer decoded[0].Release()

	require.EqualValues(t, batch.NumRows(), decoded[0].NumRows())
	require.True(t, batch.Schema().Equal(decoded[0].Schema()))
}

func TestEncodeArrowBatchesEmpty(t *testing.T) {
	_, err := EncodeArrowBatches(nil)
	require.Error(t, err)
}

func fieldNames(schema *arrow.Schema) []string {
	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	return names
}
