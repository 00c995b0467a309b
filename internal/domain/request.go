package domain

import "time"

// supportedLanguages are the languages the pipeline accepts for
// transcription. "auto" asks the backend to detect the language.
var supportedLanguages = map[string]bool{
	"auto": true,
	"en":   true,
	"vi":   true,
	"pt":   true,
	"es":   true,
	"fr":   true,
	"de":   true,
	"it":   true,
	"ja":   true,
	"ko":   true,
	"zh":   true,
}

// LanguageSupported reports whether lang is accepted by the pipeline.
func LanguageSupported(lang string) bool {
	return supportedLanguages[lang]
}

// ProcessRequest carries the input parameters for one pipeline run.
// Immutable once constructed; NewProcessRequest validates all fields.
type ProcessRequest struct {
	Source          string
	Language        string
	GenerateSummary bool
	ForceReprocess  bool
	Quality         string
}

// NewProcessRequest validates and constructs a ProcessRequest.
// An unsupported language is rejected immediately with FormatInvalid.
func NewProcessRequest(source, language string, generateSummary, forceReprocess bool) (ProcessRequest, error) {
	if source == "" {
		return ProcessRequest{}, FormatInvalid("source", source, "must not be empty")
	}
	if language == "" {
		language = "auto"
	}
	if !LanguageSupported(language) {
		return ProcessRequest{}, FormatInvalid("language", language, "is not a supported language")
	}
	return ProcessRequest{
		Source:          source,
		Language:        language,
		GenerateSummary: generateSummary,
		ForceReprocess:  forceReprocess,
	}, nil
}

// ProcessResponse carries the outcome of one pipeline run.
type ProcessResponse struct {
	Video     *Video
	WasCached bool
	Elapsed   time.Duration

	// SummaryErr records a summarization failure that did not invalidate
	// the run. Empty on full success or when no summary was requested.
	SummaryErr string
}
