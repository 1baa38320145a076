// Package capability extracts selectable options from Cloud Print capability
// documents (CDD).
package capability

import "fmt"

// MediaSize is a paper profile advertised by a printer.
type MediaSize struct {
	DisplayName      string
	VendorID         string
	WidthMicrons     int
	HeightMicrons    int
	IsContinuousFeed bool
	IsDefault        bool
}

// String returns the label shown in the media selector.
func (m MediaSize) String() string {
	return m.DisplayName
}

// Dimensions renders the size in millimetres, e.g. "210 x 297 mm".
func (m MediaSize) Dimensions() string {
	if m.WidthMicrons <= 0 && m.HeightMicrons <= 0 {
		return ""
	}
	if m.IsContinuousFeed {
		return fmt.Sprintf("%s mm wide, continuous", formatMillimetres(m.WidthMicrons))
	}
	return fmt.Sprintf("%s x %s mm", formatMillimetres(m.WidthMicrons), formatMillimetres(m.HeightMicrons))
}

// mediaSizeOption mirrors one entry of printer.media_size.option in a CDD.
type mediaSizeOption struct {
	CustomDisplayName string `json:"custom_display_name"`
	Name              string `json:"name"`
	VendorID          string `json:"vendor_id"`
	WidthMicrons      int    `json:"width_microns"`
	HeightMicrons     int    `json:"height_microns"`
	IsContinuousFeed  bool   `json:"is_continuous_feed"`
	IsDefault         bool   `json:"is_default"`
}

func (o mediaSizeOption) toMediaSize() MediaSize {
	return MediaSize{
		DisplayName:      displayName(o.CustomDisplayName, o.Name),
		VendorID:         o.VendorID,
		WidthMicrons:     o.WidthMicrons,
		HeightMicrons:    o.HeightMicrons,
		IsContinuousFeed: o.IsContinuousFeed,
		IsDefault:        o.IsDefault,
	}
}

func displayName(custom, name string) string {
	if custom != "" {
		return custom
	}
	return name
}

func formatMillimetres(microns int) string {
	whole := microns / 1000
	frac := (microns % 1000) / 100
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d.%d", whole, frac)
}
