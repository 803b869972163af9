package ai

import _ "embed"

// The persona and generation prompts are product behavior: they define
// the assistant's voice, the clarification process, and the style guide
// for generated creations. Hebrew, matching the product audience.

//go:embed prompts/dialogue_system.txt
var dialogueSystemPrompt string

//go:embed prompts/generator.txt
var generatorPrompt string
