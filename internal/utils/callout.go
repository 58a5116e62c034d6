package utils

// Obsidian callout types used for the different kinds of clippings.
const (
	CalloutQuote    = "quote"
	CalloutNote     = "note"
	CalloutExample  = "example"
	CalloutAbstract = "abstract"
	CalloutWarning  = "warning"
)

// KindToCalloutType maps a clipping kind to the callout it is rendered
// in. Highlights flagged for review are rendered as warnings.
func KindToCalloutType(kind string, suspicious bool) string {
	if suspicious {
		return CalloutWarning
	}
	switch kind {
	case "note":
		return CalloutNote
	case "clip":
		return CalloutExample
	case "article":
		return CalloutAbstract
	}
	return CalloutQuote
}
