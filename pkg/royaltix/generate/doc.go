// Package generate holds the content-generation provider clients: images via
// the Hugging Face router API, text via Groq's OpenAI-compatible API. Both
// are single-attempt; failures surface as royaltix.GenerationError.
package generate
