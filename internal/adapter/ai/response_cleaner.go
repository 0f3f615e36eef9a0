package ai

import "strings"

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// CleanModelJSON strips markdown code fences from a model response so the
// remainder can be handed to the JSON decoder. Models occasionally wrap
// structured output in fences even when asked for raw JSON.
func CleanModelJSON(s string) string {
	return strings.TrimSpace(fenceReplacer.Replace(s))
}
