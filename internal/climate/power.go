package climate

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://power.larc.nasa.gov/api/temporal/daily/point"
	DefaultDateStart = "20240101"
	DefaultDateEnd   = "20241231"

	parameters = "T2M,ALLSKY_SFC_SW_DWN,PRECTOTCORR,GWETTOP"
)

var (
	ErrStatus   = errors.New("climate service returned an error status")
	ErrNoHeader = errors.New("csv header 'YEAR' not found")
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Fetcher retrieves a dataset for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc Location) (Dataset, error)
}

type Client struct {
	BaseURL   string
	DateStart string
	DateEnd   string
	HTTP      *http.Client
	Logger    *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		BaseURL:   baseURL,
		DateStart: DefaultDateStart,
		DateEnd:   DefaultDateEnd,
		HTTP:      &http.Client{Timeout: timeout},
		Logger:    slog.Default(),
	}
}

func (c *Client) RequestURL(loc Location) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := url.Values{}
	q.Set("parameters", parameters)
	q.Set("community", "ag")
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("start", c.DateStart)
	q.Set("end", c.DateEnd)
	q.Set("format", "csv")
	q.Set("units", "metric")
	q.Set("header", "true")
	q.Set("time-standard", "utc")
	base.RawQuery = q.Encode()
	return base.String(), nil
}

func (c *Client) Fetch(ctx context.Context, loc Location) (Dataset, error) {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return nil, fmt.Errorf("location out of range: %s", loc)
	}
	u, err := c.RequestURL(loc)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("climate request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(b)))
	}

	ds, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger().Info("climate data fetched", "location", loc.String(), "records", len(ds), "took", time.Since(start))
	return ds, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// ParseCSV reads a POWER CSV response. Everything before the first line
// starting with YEAR is header preamble.
func ParseCSV(r io.Reader) (Dataset, error) {
	br := bufio.NewReader(r)
	var headerLine string
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(line, "YEAR") {
			headerLine = line
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoHeader
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var ds Dataset
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		year, err := strconv.Atoi(field(row, "YEAR"))
		if err != nil {
			continue
		}
		rec := DayRecord{
			Year:     year,
			T2M:      parseMeasure(field(row, "T2M")),
			AllSkySW: parseMeasure(field(row, "ALLSKY_SFC_SW_DWN")),
			Precip:   parseMeasure(field(row, "PRECTOTCORR")),
			GWETTOP:  parseMeasure(field(row, "GWETTOP")),
		}
		rec.Month, _ = strconv.Atoi(field(row, "MO"))
		rec.Day, _ = strconv.Atoi(field(row, "DY"))
		if doy, err := strconv.Atoi(field(row, "DOY")); err == nil {
			rec.DOY = doy
		} else if rec.Month > 0 && rec.Day > 0 {
			rec.DOY = time.Date(year, time.Month(rec.Month), rec.Day, 0, 0, 0, 0, time.UTC).YearDay()
		} else {
			continue
		}
		ds = append(ds, rec)
	}
	return ds, nil
}
