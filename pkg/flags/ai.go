package flags

import (
	"github.com/spf13/pflag"

	"github.com/young-creators/studio/pkg/ai"
)

// AIFlags contains flags for the studio's AI backends.
type AIFlags struct {
	DialogueEndpoint string
	DialogueModel    string
	GeneratorModel   string
}

func NewAIFlags() *AIFlags {
	return &AIFlags{}
}

func (f *AIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.DialogueEndpoint, "ai-endpoint", "", "URL for an OpenAI-compatible endpoint for dialogue and speech. Set OPENAI_API_KEY to specify an API key.")
	fs.StringVar(&f.DialogueModel, "dialogue-model", "", "The chat model for clarifying dialogue turns")
	fs.StringVar(&f.GeneratorModel, "generator-model", "", "The Anthropic model for artifact generation. Set ANTHROPIC_API_KEY to specify an API key.")
}

func (f *AIFlags) GetDialogueClient() *ai.DialogueClient {
	return ai.NewDialogueClient(f.DialogueEndpoint, f.DialogueModel)
}

func (f *AIFlags) GetSpeechClient() *ai.SpeechClient {
	return ai.NewSpeechClient(f.DialogueEndpoint)
}

func (f *AIFlags) GetGenerator() *ai.Generator {
	return ai.NewGenerator(f.GeneratorModel)
}
