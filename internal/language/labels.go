package language

import (
	"sort"
	"strings"
)

type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var labels = map[string]string{
	"ar": "Arabic",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"ms": "Malay",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// Label returns the English name for a language code, or "" when unknown.
func Label(raw string) string {
	return labels[NormalizeCode(raw)]
}

// Options lists the known target languages sorted by code.
func Options() []Option {
	codes := make([]string, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]Option, 0, len(codes))
	for _, code := range codes {
		label := labels[code]
		if label == "" {
			label = strings.ToUpper(code)
		}
		options = append(options, Option{Code: code, Label: label})
	}
	return options
}
