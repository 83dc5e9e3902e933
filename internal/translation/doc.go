// Package translation fills in missing translations with a chat model.
// OpenAI and Gemini are supported; every provider runs behind a circuit
// breaker so a failing API is not hammered once per row of a large table.
package translation
