package modeladapter

// charsPerToken is the rough number of English characters per token.
const charsPerToken = 4

// EstimateTokens estimates the token count of text with the
// 1-token-per-4-characters heuristic, rounding up. It is only used for
// logging; the endpoint's reported usage is authoritative.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}
