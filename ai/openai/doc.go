// Package openai implements the ai interfaces against OpenAI-compatible APIs.
//
// Both the hosted OpenAI API and local OpenAI-compatible servers (Ollama,
// LocalAI, vLLM) are supported; the base URLs and models come from ai.Config.
package openai
