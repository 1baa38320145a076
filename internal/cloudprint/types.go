package cloudprint

import "net/http"

// PrinterRef identifies a printer registered to an account.
type PrinterRef struct {
	ID   string
	Name string
}

// String returns the label shown in the printer selector.
func (p PrinterRef) String() string {
	return p.Name
}

// PrinterDetails carries the raw /printer response. Body holds the
// capability document when StatusCode is 200.
type PrinterDetails struct {
	PrinterID  string
	StatusCode int
	Body       []byte
}

// OK reports whether the details call succeeded.
func (d PrinterDetails) OK() bool {
	return d.StatusCode == http.StatusOK
}

// Unauthorized reports whether the API rejected the bearer token.
func (d PrinterDetails) Unauthorized() bool {
	return unauthorized(d.StatusCode)
}

func unauthorized(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// searchResponse mirrors the payload returned by /search.
type searchResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Printers []searchPrinter `json:"printers"`
}

type searchPrinter struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	DefaultDisplay string `json:"defaultDisplayName"`
	Status         string `json:"connectionStatus"`
}

func (p searchPrinter) ref() PrinterRef {
	name := p.DisplayName
	if name == "" {
		name = p.DefaultDisplay
	}
	if name == "" {
		name = p.Name
	}
	return PrinterRef{ID: p.ID, Name: name}
}
