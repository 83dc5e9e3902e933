// Package models lists the OpenAI chat models available to an API key, so
// users can pick one for translating their tables.
package models
