package csvio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshdedup/lshdedup/internal/csvio"
	"github.com/lshdedup/lshdedup/internal/model"
)

func TestReadRecordsParsesIDAndTextColumns(t *testing.T) {
	data := "id,text\n1,hello world\n2,goodbye world\n"
	records, err := csvio.ReadRecords([]byte(data))
	require.Nil(t, err)
	assert.Equal(t, []model.Record{
		{ID: "1", Text: "hello world"},
		{ID: "2", Text: "goodbye world"},
	}, records)
}

func TestReadRecordsIgnoresExtraColumns(t *testing.T) {
	data := "extra,id,text,more\nx,1,hello,y\n"
	records, svcErr := csvio.ReadRecords([]byte(data))
	require.Nil(t, svcErr)
	assert.Equal(t, []model.Record{{ID: "1", Text: "hello"}}, records)
}

func TestReadRecordsMissingColumnsIsConfigError(t *testing.T) {
	data := "foo,bar\n1,2\n"
	_, svcErr := csvio.ReadRecords([]byte(data))
	require.NotNil(t, svcErr)
	assert.Equal(t, "file must contain columns 'id' and 'text'", svcErr.Error())
}

func TestReadRecordsRaggedRowIsIOError(t *testing.T) {
	data := "text,extra,id\nhello,x\n"
	_, svcErr := csvio.ReadRecords([]byte(data))
	require.NotNil(t, svcErr)
}

func TestWriteResultsRoundTrip(t *testing.T) {
	results := []model.RecordResult{
		{ID: "1", ClusterID: "0-2"},
		{ID: "2", ClusterID: "0-2"},
	}
	out, svcErr := csvio.WriteResults(results)
	require.Nil(t, svcErr)
	assert.Equal(t, "1,0-2\n2,0-2\n", string(out))
}
