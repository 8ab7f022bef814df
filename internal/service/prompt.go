package service

import "strings"

const (
	transcriptMarker = "Transcript:"
	responseMarker   = "Respond in JSON with `assets`, `expenditures`, and `income` keys."
)

const extractionPromptTemplate = `You are a financial assistant who is an expert in finance. You know all about financial planning, businesses, assets, liabilities, debts, funds, laws, etc.
Extract financial details from the given transcript and categorize them into the following:

1. **assets**: Extract all information with the actual figures, as sentences mentioning assets. Can include savings, funds, insurances or anything that could be considered a financial asset. Use your expert judgement.
2. **expenditures**: Extract all information with the actual figures, as sentences mentioning expenditures, costs, regular spending or future expenditures. Use your expert judgement.
3. **income**: Extract all information with the actual figures, as sentences mentioning income, salary, or earnings. Use your expert judgement.

Be accurate and categorize appropriately. Check properly. Output the information as a list of facts or sentences under Assets, Expenditures, and Income.
Use the 3rd person form of grammar.

` + transcriptMarker + `
{transcript}

` + responseMarker + ` Each key must hold a JSON array of strings. Return ONLY the JSON object, without Markdown code fences.`

// BuildExtractionPrompt embeds the transcript verbatim into the fixed instruction.
func BuildExtractionPrompt(transcript string) string {
	return strings.Replace(extractionPromptTemplate, "{transcript}", transcript, 1)
}

// transcriptFromPrompt recovers the embedded transcript, for providers that
// work on the raw text rather than the instruction.
func transcriptFromPrompt(prompt string) string {
	start := strings.Index(prompt, transcriptMarker)
	end := strings.LastIndex(prompt, responseMarker)
	if start == -1 || end == -1 || end < start {
		return prompt
	}
	return strings.TrimSpace(prompt[start+len(transcriptMarker) : end])
}
