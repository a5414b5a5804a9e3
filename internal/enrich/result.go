package enrich

// UnreachableSummary is the placeholder text reported for a site that could
// not be fetched or described.
const UnreachableSummary = "Could not access website"

// Kind discriminates enrichment outcomes.
type Kind int

const (
	// Described means the site returned a usable meta description or title.
	Described Kind = iota
	// Unreachable covers network errors, timeouts, bad statuses, unparseable
	// bodies and pages with neither a description nor a title.
	Unreachable
)

func (k Kind) String() string {
	switch k {
	case Described:
		return "described"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Result is the outcome of enriching one URL.
type Result struct {
	// URL is the input exactly as extracted from the transcript.
	URL     string
	Kind    Kind
	Summary string
	// StatusCode is the HTTP status of the fetched page, zero when no response
	// arrived.
	StatusCode int
	// Err records why the site was unreachable. It is informational only.
	Err error
}

// Line renders the result as a report entry: "<url>: <summary>".
func (r Result) Line() string {
	if r.Kind == Unreachable {
		return r.URL + ": " + UnreachableSummary
	}
	return r.URL + ": " + r.Summary
}
