package climate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `-BEGIN HEADER-
NASA/POWER CERES/MERRA2 Native Resolution Daily Data
Dates (month/day/year): 01/01/2024 through 12/31/2024 in UTC
Location: Latitude  36.12   Longitude 36.12
-999 = missing data
-END HEADER-
YEAR,DOY,T2M,ALLSKY_SFC_SW_DWN,PRECTOTCORR,GWETTOP
2024,1,7.41,2.85,0.0,0.61
2024,2,8.02,-999,1.2,0.58
2024,3,-999,3.1,0.0,-999
`

func TestParseCSVSkipsPreamble(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, ds, 3)

	assert.Equal(t, 2024, ds[0].Year)
	assert.Equal(t, 1, ds[0].DOY)
	assert.Equal(t, Known(7.41), ds[0].T2M)
	assert.Equal(t, Known(0.61), ds[0].GWETTOP)
	assert.False(t, ds[1].AllSkySW.Valid, "fill value is missing")
	assert.False(t, ds[2].T2M.Valid)
	assert.False(t, ds[2].GWETTOP.Valid)
}

func TestParseCSVDerivesDayOfYearFromDate(t *testing.T) {
	doc := "YEAR,MO,DY,T2M,GWETTOP\n2024,3,1,10.5,0.4\n"
	ds, err := ParseCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, 61, ds[0].DOY, "2024 is a leap year")
	assert.Equal(t, 3, ds[0].Month)
}

func TestParseCSVMissingHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("-BEGIN HEADER-\nnothing here\n"))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestDatasetReading(t *testing.T) {
	ds := Dataset{
		{DOY: 5, T2M: Known(3), GWETTOP: Known(0.2)},
		{DOY: 5, T2M: Known(99)},
		{DOY: 6},
	}
	r, ok := ds.Reading(5)
	require.True(t, ok)
	require.NotNil(t, r.TemperatureC)
	assert.Equal(t, 3.0, *r.TemperatureC, "first match wins")
	assert.Equal(t, 0.2, *r.TopLayerWetness)

	r, ok = ds.Reading(6)
	require.True(t, ok)
	assert.Nil(t, r.TemperatureC)
	assert.Nil(t, r.TopLayerWetness)

	_, ok = ds.Reading(46)
	assert.False(t, ok)
}

func TestMeasureJSON(t *testing.T) {
	var recs []DayRecord
	doc := `[{"YEAR": 2024, "DOY": 1, "T2M": "12.5", "GWETTOP": "wet"},
	         {"YEAR": 2024, "DOY": 2, "T2M": 4, "GWETTOP": null, "PRECTOTCORR": -999}]`
	require.NoError(t, json.Unmarshal([]byte(doc), &recs))
	assert.Equal(t, Known(12.5), recs[0].T2M)
	assert.False(t, recs[0].GWETTOP.Valid)
	assert.Equal(t, Known(4), recs[1].T2M)
	assert.False(t, recs[1].Precip.Valid)

	out, err := json.Marshal(DayRecord{Year: 2024, DOY: 9, T2M: Known(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"YEAR":2024,"DOY":9,"T2M":1.5,"ALLSKY_SFC_SW_DWN":null,"PRECTOTCORR":null,"GWETTOP":null}`, string(out))
}

func TestClientFetch(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	ds, err := c.Fetch(context.Background(), Location{Latitude: 36.12, Longitude: -5.5})
	require.NoError(t, err)
	assert.Len(t, ds, 3)

	assert.Equal(t, []string{"36.12"}, gotQuery["latitude"])
	assert.Equal(t, []string{"-5.5"}, gotQuery["longitude"])
	assert.Equal(t, []string{"T2M,ALLSKY_SFC_SW_DWN,PRECTOTCORR,GWETTOP"}, gotQuery["parameters"])
	assert.Equal(t, []string{"csv"}, gotQuery["format"])
	assert.Equal(t, []string{DefaultDateStart}, gotQuery["start"])
}

func TestClientFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad coordinates", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background(), Location{})
	require.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "bad coordinates")
}

func TestClientRejectsOutOfRange(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second).Fetch(context.Background(), Location{Latitude: 91})
	assert.Error(t, err)
}

type countingFetcher struct {
	calls int
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, loc Location) (Dataset, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return Dataset{{Year: 2024, DOY: 1, T2M: Known(loc.Latitude)}}, nil
}

func TestCachedFetcherRoundsLocation(t *testing.T) {
	next := &countingFetcher{}
	c := NewCachedFetcher(next, 4, time.Minute)

	_, err := c.Fetch(context.Background(), Location{Latitude: 10.001, Longitude: 20.004})
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), Location{Latitude: 10.003, Longitude: 19.996})
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	_, err = c.Fetch(context.Background(), Location{Latitude: 11, Longitude: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 2, c.Len())
}

func TestCachedFetcherDoesNotCacheErrors(t *testing.T) {
	next := &countingFetcher{err: errors.New("offline")}
	c := NewCachedFetcher(next, 4, time.Minute)
	_, err := c.Fetch(context.Background(), Location{})
	require.Error(t, err)
	_, err = c.Fetch(context.Background(), Location{})
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "climate.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	loc := Location{Latitude: 36.12, Longitude: 36.12}
	_, ok, err := store.Load(ctx, loc)
	require.NoError(t, err)
	assert.False(t, ok)

	ds := Dataset{
		{Year: 2024, DOY: 2, T2M: Known(8), GWETTOP: Known(0.5)},
		{Year: 2024, DOY: 1, T2M: Known(7.5)},
	}
	require.NoError(t, store.Save(ctx, loc, ds))

	got, ok, err := store.Load(ctx, loc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].DOY)
	assert.False(t, got[0].GWETTOP.Valid)
	assert.Equal(t, Known(0.5), got[1].GWETTOP)

	require.NoError(t, store.Save(ctx, loc, Dataset{{Year: 2024, DOY: 3}}))
	got, _, err = store.Load(ctx, loc)
	require.NoError(t, err)
	assert.Len(t, got, 1, "save replaces the previous dataset")

	locs, err := store.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, 1, locs[0].Records)
	assert.InDelta(t, 36.12, locs[0].Latitude, 1e-9)
}

func TestStoredFetcherFallsThroughOnce(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "climate.db"))
	require.NoError(t, err)
	defer store.Close()

	next := &countingFetcher{}
	f := &StoredFetcher{Store: store, Next: next}
	loc := Location{Latitude: 1, Longitude: 2}

	first, err := f.Fetch(context.Background(), loc)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}

func TestJSONExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultEnvironmentFile)
	ds := Dataset{{Year: 2024, DOY: 1, T2M: Known(7.41), GWETTOP: Known(0.61)}}
	require.NoError(t, WriteJSON(path, ds))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, ds, got)

	_, err = ReadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}
