package daemon

import (
	"encoding/json"
	"fmt"
)

// The daemon speaks newline-delimited JSON with externally tagged variants:
// unit variants are bare strings ("Exit"), tuple/struct variants are
// single-key objects ({"Search":"query"}).

// Request is a message sent to the daemon.
type Request interface {
	requestTag() string
}

// Search asks the daemon for results matching a query.
type Search string

// Activate runs the result at the given index.
type Activate uint32

// Complete asks the daemon to fill the input from the result at the given index.
type Complete uint32

// Exit tells the daemon to shut down.
type Exit struct{}

// Interrupt cancels the daemon's in-flight search.
type Interrupt struct{}

func (Search) requestTag() string    { return "Search" }
func (Activate) requestTag() string  { return "Activate" }
func (Complete) requestTag() string  { return "Complete" }
func (Exit) requestTag() string      { return "Exit" }
func (Interrupt) requestTag() string { return "Interrupt" }

// EncodeRequest serializes a request to its wire form, without a trailing newline.
func EncodeRequest(r Request) ([]byte, error) {
	switch req := r.(type) {
	case Search:
		return json.Marshal(map[string]string{"Search": string(req)})
	case Activate:
		return json.Marshal(map[string]uint32{"Activate": uint32(req)})
	case Complete:
		return json.Marshal(map[string]uint32{"Complete": uint32(req)})
	case Exit:
		return json.Marshal("Exit")
	case Interrupt:
		return json.Marshal("Interrupt")
	default:
		return nil, fmt.Errorf("unknown request type %T", r)
	}
}

// Response is a message received from the daemon.
type Response interface {
	responseTag() string
}

// Close signals a clean shutdown requested by the daemon.
type Close struct{}

// Context carries per-result context options. Not supported by this frontend.
type Context struct {
	ID      uint32          `json:"id"`
	Options json.RawMessage `json:"options"`
}

// ExecuteEntry instructs the frontend to launch a desktop entry directly.
type ExecuteEntry struct {
	Path          string `json:"path"`
	GpuPreference string `json:"gpu_preference"`
}

// Update replaces the live result list.
type Update []ResultEntry

// Fill replaces the search input with a completed query.
type Fill string

func (Close) responseTag() string        { return "Close" }
func (Context) responseTag() string      { return "Context" }
func (ExecuteEntry) responseTag() string { return "DesktopEntry" }
func (Update) responseTag() string       { return "Update" }
func (Fill) responseTag() string         { return "Fill" }

// ResultEntry is a single search result produced by a daemon plugin.
type ResultEntry struct {
	ID          uint32      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords,omitempty"`
	Icon        *IconSource `json:"icon,omitempty"`
	Exec        string      `json:"exec,omitempty"`
	Window      []uint32    `json:"window,omitempty"`
}

// IconSource names an icon either by theme name or by mime type.
type IconSource struct {
	Name string
	Mime string
}

func (i *IconSource) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Name string `json:"Name"`
		Mime string `json:"Mime"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	i.Name = tagged.Name
	i.Mime = tagged.Mime
	return nil
}

func (i IconSource) MarshalJSON() ([]byte, error) {
	if i.Mime != "" {
		return json.Marshal(map[string]string{"Mime": i.Mime})
	}
	return json.Marshal(map[string]string{"Name": i.Name})
}

// DecodeResponse parses one wire line into a Response.
func DecodeResponse(data []byte) (Response, error) {
	// Unit variants arrive as bare strings.
	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		switch unit {
		case "Close":
			return Close{}, nil
		default:
			return nil, fmt.Errorf("unknown response variant %q", unit)
		}
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("expected a single response variant, got %d keys", len(tagged))
	}

	for tag, raw := range tagged {
		switch tag {
		case "Context":
			var ctx Context
			if err := json.Unmarshal(raw, &ctx); err != nil {
				return nil, fmt.Errorf("decode Context: %w", err)
			}
			return ctx, nil
		case "DesktopEntry":
			var entry ExecuteEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				return nil, fmt.Errorf("decode DesktopEntry: %w", err)
			}
			return entry, nil
		case "Update":
			var entries []ResultEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, fmt.Errorf("decode Update: %w", err)
			}
			return Update(entries), nil
		case "Fill":
			var fill string
			if err := json.Unmarshal(raw, &fill); err != nil {
				return nil, fmt.Errorf("decode Fill: %w", err)
			}
			return Fill(fill), nil
		default:
			return nil, fmt.Errorf("unknown response variant %q", tag)
		}
	}
	return nil, fmt.Errorf("empty response")
}
