package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Event is one server-sent event of the grid stream.
type Event struct {
	Name string
	Data json.RawMessage
}

// GridUpdate is the payload of a grafik.updated event.
type GridUpdate struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Watch streams the events of one department until ctx is done, the server
// closes the stream or fn returns an error. It authenticates with a
// short-lived stream token.
func (c *Client) Watch(ctx context.Context, departmentID int64, fn func(Event) error) error {
	tok, err := c.SSEToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain stream token: %w", err)
	}

	q := url.Values{
		"department": {strconv.FormatInt(departmentID, 10)},
		"token":      {tok.Token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL("/grafik/events", q), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return decodeEnvelope(resp.StatusCode, data, nil)
	}

	err = readEvents(resp.Body, fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses an event stream. Comment lines and fields other than
// event and data are ignored; multiple data lines are joined with "\n".
func readEvents(r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var name string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(data) > 0 {
				ev := Event{Name: name, Data: json.RawMessage(strings.Join(data, "\n"))}
				if ev.Name == "" {
					ev.Name = "message"
				}
				if err := fn(ev); err != nil {
					return err
				}
			}
			name, data = "", nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	return scanner.Err()
}
