package services

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/stokdash/src/logger"
	"github.com/username/stokdash/src/parsers"
	"github.com/username/stokdash/src/processors"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestService() UploadService {
	reportCache := cache.New(time.Minute, 0)
	return NewUploadService(processors.NewRecordProcessor(), reportCache)
}

const sampleCSV = `Produk,Stock Keluar,Stock Masuk,Harga
Kopi Susu,10,2,Rp15.000
Teh Botol,0,5,Rp5.000
Roti Bakar,-1,0,Rp8.000`

func TestProcessUploadStoresReport(t *testing.T) {
	svc := newTestService()

	report, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", report.SessionID)
	assert.Equal(t, parsers.SourceCSV, report.Source)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, float64(150000+0-8000), report.Aggregates.TotalValue)
	assert.Equal(t, []string{"Teh Botol"}, report.Aggregates.ZeroMovers)
	assert.Equal(t, []string{"Roti Bakar"}, report.Aggregates.MinusMovers)

	cached, err := svc.GetReport("sess-1")
	require.NoError(t, err)
	assert.Equal(t, report, cached)
}

func TestProcessUploadUnknownSource(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", "pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}

func TestProcessUploadMalformedFile(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(""), "sess-1", parsers.SourceCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)

	_, getErr := svc.GetReport("sess-1")
	assert.ErrorIs(t, getErr, ErrReportNotFound)
}

func TestProcessUploadSchemaFailureKeepsSentinelChain(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader("Qty,Total\n1,100\n"), "sess-1", parsers.SourceCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.ErrorIs(t, err, processors.ErrNoIdentifierColumn)
}

func TestProcessUploadReplacesPreviousReport(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	_, err = svc.ProcessUpload(strings.NewReader("Produk,Stock Keluar\nBaru,1\n"), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	report, err := svc.GetReport("sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowCount)
	assert.Equal(t, "Baru", report.Records[0].Produk)
}

func TestGetReportUnknownSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetReport("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestReportsAreSessionScoped(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-a", parsers.SourceCSV)
	require.NoError(t, err)

	_, err = svc.GetReport("sess-b")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestTopMoversFromSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	movers, err := svc.TopMovers("sess-1", processors.MetricStockKeluar, 10)
	require.NoError(t, err)
	require.NotEmpty(t, movers)
	assert.Equal(t, "Kopi Susu", movers[0].Produk)
	assert.Equal(t, float64(10), movers[0].Total)
}

func TestTopMoversInvalidMetric(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	_, err = svc.TopMovers("sess-1", "harga", 10)
	assert.ErrorIs(t, err, processors.ErrInvalidMetric)
}

func TestTopMoversUnknownSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.TopMovers("missing", processors.MetricStockKeluar, 10)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestInvalidateSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.ProcessUpload(strings.NewReader(sampleCSV), "sess-1", parsers.SourceCSV)
	require.NoError(t, err)

	svc.InvalidateSession("sess-1")

	_, err = svc.GetReport("sess-1")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
