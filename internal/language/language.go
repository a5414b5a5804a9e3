package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

type entry struct {
	code2   string // ISO 639-1
	code3   string // ISO 639-2
	alt3    string // ISO 639-2/B where it differs
	display string
	lingua  lingua.Language
}

var languages = []entry{
	{"en", "eng", "", "English", lingua.English},
	{"es", "spa", "", "Spanish", lingua.Spanish},
	{"fr", "fra", "fre", "French", lingua.French},
	{"de", "deu", "ger", "German", lingua.German},
	{"it", "ita", "", "Italian", lingua.Italian},
	{"pt", "por", "", "Portuguese", lingua.Portuguese},
	{"ja", "jpn", "", "Japanese", lingua.Japanese},
	{"ko", "kor", "", "Korean", lingua.Korean},
	{"zh", "zho", "chi", "Chinese", lingua.Chinese},
	{"ru", "rus", "", "Russian", lingua.Russian},
	{"ar", "ara", "", "Arabic", lingua.Arabic},
	{"hi", "hin", "", "Hindi", lingua.Hindi},
	{"nl", "nld", "dut", "Dutch", lingua.Dutch},
	{"pl", "pol", "", "Polish", lingua.Polish},
	{"sv", "swe", "", "Swedish", lingua.Swedish},
	{"da", "dan", "", "Danish", lingua.Danish},
	{"fi", "fin", "", "Finnish", lingua.Finnish},
}

var (
	byCode   map[string]*entry
	byLingua map[lingua.Language]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages)*4)
	byLingua = make(map[lingua.Language]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		byCode[strings.ToLower(e.display)] = e
		byLingua[e.lingua] = e
	}
}

func lookup(code string) *entry {
	return byCode[strings.ToLower(strings.TrimSpace(code))]
}

// ToISO2 converts a language code or English name to ISO 639-1.
// Unknown two-letter codes pass through; anything else unknown yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable name for code.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Supported lists the ISO 639-1 codes the detector can report.
func Supported() []string {
	codes := make([]string, 0, len(languages))
	for _, e := range languages {
		codes = append(codes, e.code2)
	}
	return codes
}
