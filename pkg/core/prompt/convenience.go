package prompt

// Convenience functions for common prompt operations

// GetChatPrompt returns a chat-stage system prompt by stage name
func GetChatPrompt(stage string) (string, error) {
	id := "chat." + stage
	return Get().GetSystemPrompt(id)
}

// GetLookupPrompt returns a lookup-stage system prompt by stage name
func GetLookupPrompt(stage string) (string, error) {
	id := "lookup." + stage
	return Get().GetSystemPrompt(id)
}

// MustGetChatPrompt is like GetChatPrompt but panics on error
func MustGetChatPrompt(stage string) string {
	p, err := GetChatPrompt(stage)
	if err != nil {
		panic(err)
	}
	return p
}

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	// Chat pipeline
	ChatRouter       string
	ChatDirectAnswer string
	ChatAnalysis     string
	ChatSynthesis    string

	// Lookup pipeline
	LookupSQLGeneration    string
	LookupAnswerGeneration string
}{
	ChatRouter:       "chat.router",
	ChatDirectAnswer: "chat.direct_answer",
	ChatAnalysis:     "chat.analysis",
	ChatSynthesis:    "chat.synthesis",

	LookupSQLGeneration:    "lookup.sql_generation",
	LookupAnswerGeneration: "lookup.answer_generation",
}
