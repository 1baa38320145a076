package capability

import (
	jsoniter "github.com/json-iterator/go"
)

// Parser reads media sizes out of capability documents. It holds its own
// JSON API instance so callers never touch package-level JSON settings.
type Parser struct {
	api jsoniter.API
}

// mediaSizePath locates printers[*].capabilities.printer.media_size.option.
var mediaSizePath = []any{"printers", '*', "capabilities", "printer", "media_size", "option"}

// DefaultAPI returns a frozen JSON configuration suited to capability documents.
func DefaultAPI() jsoniter.API {
	return jsoniter.Config{
		EscapeHTML:             false,
		UseNumber:              false,
		DisallowUnknownFields:  false,
		ValidateJsonRawMessage: true,
	}.Froze()
}

// NewParser builds a Parser around api. A nil api uses DefaultAPI.
func NewParser(api jsoniter.API) *Parser {
	if api == nil {
		api = DefaultAPI()
	}
	return &Parser{api: api}
}

// Valid reports whether doc is well-formed JSON.
func (p *Parser) Valid(doc []byte) bool {
	return len(doc) > 0 && p.api.Valid(doc)
}

// Parse returns every media size option found in doc, in document order.
// Malformed or absent documents yield an empty list.
func (p *Parser) Parse(doc []byte) []MediaSize {
	if !p.Valid(doc) {
		return []MediaSize{}
	}

	perPrinter := p.api.Get(doc, mediaSizePath...)
	if perPrinter.ValueType() != jsoniter.ArrayValue {
		return []MediaSize{}
	}

	sizes := make([]MediaSize, 0)
	for i := 0; i < perPrinter.Size(); i++ {
		options := perPrinter.Get(i)
		if options.ValueType() != jsoniter.ArrayValue {
			continue
		}
		for j := 0; j < options.Size(); j++ {
			entry := options.Get(j)
			if entry.ValueType() != jsoniter.ObjectValue {
				continue
			}
			var opt mediaSizeOption
			entry.ToVal(&opt)
			sizes = append(sizes, opt.toMediaSize())
		}
	}
	return sizes
}

// DefaultIndex returns the index of the media size flagged as default, or 0.
func DefaultIndex(sizes []MediaSize) int {
	for i, size := range sizes {
		if size.IsDefault {
			return i
		}
	}
	return 0
}
