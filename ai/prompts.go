package ai

// ClassificationPrompt instructs the model to answer with a bare JSON object.
const ClassificationPrompt = `You are a security analyst who detects phishing websites.

Analyze the following web page text and decide whether the page is trying to
steal credentials, payment details or personal information.

Respond with ONLY a JSON object, no markdown and no extra text, in exactly this shape:
{"isPhishing": true or false, "confidence": number between 0 and 1, "reasoning": "one short sentence"}

Page text:
`

// BuildClassificationPrompt appends the (already truncated) page text.
func BuildClassificationPrompt(text string) string {
	return ClassificationPrompt + text
}
