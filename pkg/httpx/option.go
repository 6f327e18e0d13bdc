package httpx

type Option func(*LoggingRoundTripper)

// WithLogFieldMaxLen truncates request and response dumps; 0 keeps them whole.
func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

// WithSensitiveDataMasker masks dumps before logging. nil keeps the current
// masker.
func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		if sensitiveDataMasker != nil {
			rt.sensitiveDataMasker = sensitiveDataMasker
		}
	}
}

// WithoutResponseBody logs response status and headers only. Use it for
// clients that download bulk payloads.
func WithoutResponseBody() Option {
	return func(rt *LoggingRoundTripper) {
		rt.skipResponseBody = true
	}
}
