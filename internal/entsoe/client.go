// Package entsoe is a minimal client for the ENTSO-E transparency platform
// REST API, covering the Actual Total Load document (A65/A16).
package entsoe

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nordgrid/sweload/internal/timeseries"
)

const (
	// DefaultBaseURL is the production transparency platform endpoint.
	DefaultBaseURL = "https://web-api.tp.entsoe.eu"

	documentActualLoad = "A65"
	processRealised    = "A16"

	// periodLayout is the UTC request-parameter timestamp format.
	periodLayout = "200601021504"
	// intervalLayout is the timestamp format inside response documents.
	intervalLayout = "2006-01-02T15:04Z"
)

// FetchError is any upstream failure: transport, auth, or a rejected /
// empty-range query answered with an acknowledgement document.
type FetchError struct {
	Status int
	Code   string
	Reason string
}

func (e *FetchError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("entsoe: %s (code %s)", e.Reason, e.Code)
	case e.Status != 0:
		return fmt.Sprintf("entsoe: unexpected status %d", e.Status)
	default:
		return "entsoe: fetch failed"
	}
}

// NoData reports whether the error is the platform's "no matching data"
// acknowledgement (reason code 999).
func (e *FetchError) NoData() bool { return e.Code == "999" }

// Client queries the transparency platform.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New returns a client using apiKey as the security token. An empty baseURL
// selects the production endpoint.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// glDocument is the subset of GL_MarketDocument the load query needs.
type glDocument struct {
	XMLName    xml.Name `xml:"GL_MarketDocument"`
	TimeSeries []struct {
		Period []struct {
			TimeInterval struct {
				Start string `xml:"start"`
			} `xml:"timeInterval"`
			Resolution string `xml:"resolution"`
			Point      []struct {
				Position int    `xml:"position"`
				Quantity string `xml:"quantity"`
			} `xml:"Point"`
		} `xml:"Period"`
	} `xml:"TimeSeries"`
}

// acknowledgement is the rejection envelope the platform answers with when a
// query matches nothing or is malformed.
type acknowledgement struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	Reason  struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}

// FetchLoad retrieves Actual Total Load for zone over the half-open
// [start, end) window and returns it as a raw frame: one textual "quantity"
// column indexed by the UTC instant each value covers. Values are hourly
// means over [H, H+1); sub-hourly resolutions are carried through at their
// native spacing.
func (c *Client) FetchLoad(ctx context.Context, zone timeseries.Zone, start, end time.Time) (timeseries.Frame, error) {
	area, err := zone.AreaCode()
	if err != nil {
		return timeseries.Frame{}, err
	}

	query := url.Values{}
	query.Set("securityToken", c.apiKey)
	query.Set("documentType", documentActualLoad)
	query.Set("processType", processRealised)
	query.Set("outBiddingZone_Domain", area)
	query.Set("periodStart", start.UTC().Format(periodLayout))
	query.Set("periodEnd", end.UTC().Format(periodLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api?"+query.Encode(), nil)
	if err != nil {
		return timeseries.Frame{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return timeseries.Frame{}, fmt.Errorf("request load document: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return timeseries.Frame{}, fmt.Errorf("read load document: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := &FetchError{Status: resp.StatusCode}
		var ack acknowledgement
		if xml.Unmarshal(body, &ack) == nil {
			fe.Code = ack.Reason.Code
			fe.Reason = ack.Reason.Text
		}
		return timeseries.Frame{}, fe
	}

	var ack acknowledgement
	if err := xml.Unmarshal(body, &ack); err == nil {
		return timeseries.Frame{}, &FetchError{Code: ack.Reason.Code, Reason: ack.Reason.Text}
	}

	var doc glDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return timeseries.Frame{}, fmt.Errorf("decode load document: %w", err)
	}

	frame, err := frameFromDocument(doc)
	if err != nil {
		return timeseries.Frame{}, err
	}
	if frame.Len() == 0 {
		return timeseries.Frame{}, &FetchError{Code: "999", Reason: "document contained no points"}
	}
	return frame, nil
}

// frameFromDocument flattens all periods of all series into one frame.
// Overlapping periods may produce duplicate index entries; the history
// reconciler resolves those downstream.
func frameFromDocument(doc glDocument) (timeseries.Frame, error) {
	frame := timeseries.Frame{IndexName: "date"}
	col := timeseries.Column{Name: "quantity"}

	for _, series := range doc.TimeSeries {
		for _, period := range series.Period {
			periodStart, err := time.Parse(intervalLayout, period.TimeInterval.Start)
			if err != nil {
				return timeseries.Frame{}, fmt.Errorf("parse period start %q: %w", period.TimeInterval.Start, err)
			}
			step, err := parseResolution(period.Resolution)
			if err != nil {
				return timeseries.Frame{}, err
			}
			for _, point := range period.Point {
				ts := periodStart.Add(time.Duration(point.Position-1) * step)
				frame.Index = append(frame.Index, ts.UTC())
				col.Raw = append(col.Raw, point.Quantity)
			}
		}
	}

	frame.Columns = []timeseries.Column{col}
	return frame, nil
}

func parseResolution(res string) (time.Duration, error) {
	switch res {
	case "PT60M":
		return time.Hour, nil
	case "PT30M":
		return 30 * time.Minute, nil
	case "PT15M":
		return 15 * time.Minute, nil
	default:
		return 0, fmt.Errorf("unsupported resolution %q", res)
	}
}
