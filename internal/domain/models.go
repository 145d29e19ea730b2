package domain

// TextStats summarizes extracted text for parse and analyze responses.
type TextStats struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
	Lines      int `json:"lines"`
}

// ParseResult is the response body for a parse operation. Content and Stats
// are set for text and html output; Metadata is set for metadata output and
// holds either the engine's decoded JSON or, when that fails to parse, the
// raw body as a string.
type ParseResult struct {
	Success        bool         `json:"success"`
	Format         OutputFormat `json:"format"`
	FileSize       int          `json:"file_size"`
	ProcessingTime float64      `json:"processing_time"`
	ContentLength  int          `json:"content_length"`
	Content        string       `json:"content,omitempty"`
	Stats          *TextStats   `json:"stats,omitempty"`
	Metadata       interface{}  `json:"metadata,omitempty"`
}

// DetectResult is the response body for a MIME-type detection.
type DetectResult struct {
	Success  bool   `json:"success"`
	MimeType string `json:"mime_type"`
	FileSize int    `json:"file_size"`
}

// LanguageResult is the response body for language detection. A document with
// no extractable text yields Success=false with an explanatory Message and
// HTTP 200 rather than an error status.
type LanguageResult struct {
	Success    bool   `json:"success"`
	Language   string `json:"language,omitempty"`
	TextLength int    `json:"text_length"`
	Message    string `json:"message,omitempty"`
}

// AnalysisResult aggregates detection, metadata, text extraction, and
// best-effort language detection. Sub-step failures degrade their own field:
// a failed detect drops MimeType, a failed metadata call stores an error note
// in Metadata, a failed extraction leaves the preview empty, and a failed
// language probe is dropped silently.
type AnalysisResult struct {
	Success        bool        `json:"success"`
	FileSize       int         `json:"file_size"`
	ProcessingTime float64     `json:"processing_time"`
	MimeType       string      `json:"mime_type,omitempty"`
	Metadata       interface{} `json:"metadata,omitempty"`
	TextPreview    string      `json:"text_preview"`
	TextLength     int         `json:"text_length"`
	TextAnalysis   *TextStats  `json:"text_analysis,omitempty"`
	Language       string      `json:"language,omitempty"`
}
