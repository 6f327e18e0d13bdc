package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

const maskReplacement = "${1}[MASKED]${2}"

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("accessToken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("token":\s?").+?(")`),
	regexp.MustCompile(`(?s)("secret":\s?").+?(")`),
}

// SensitiveDataMasker replaces every match of its patterns in HTTP dumps
// before they reach the log. Capture groups 1 and 2 are kept around the mask.
type SensitiveDataMasker struct {
	patterns []*regexp.Regexp
}

// NewSensitiveDataMasker masks bearer tokens and credential JSON fields.
func NewSensitiveDataMasker(extra ...*regexp.Regexp) SensitiveDataMasker {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveDataPatterns)+len(extra))
	patterns = append(patterns, sensitiveDataPatterns...)
	patterns = append(patterns, extra...)

	return SensitiveDataMasker{patterns: patterns}
}

// NewNopSensitiveDataMasker returns a masker that leaves input untouched.
func NewNopSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range s.patterns {
		input = pattern.ReplaceAll(input, []byte(maskReplacement))
	}

	return input
}
