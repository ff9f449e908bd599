// Package wcollama lets the WaterCrawl crawler delegate content extraction
// to a locally hosted Ollama server. Crawled page content is prepared,
// combined with a system prompt and extraction instructions, sent to the
// backend, and the completion is mapped back into an ExtractionResult.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., ollama/, openai/, trafilatura/).
package wcollama
