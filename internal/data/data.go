package data

import "embed"

//go:embed system_prompt.txt
var SystemPrompt string

// Prompts holds the built-in TOML prompt templates, one per generation
// task. Files can be overridden from a configured prompt directory.
//
//go:embed prompts
var Prompts embed.FS
