package refine

import "strings"

// Prompts are selected by transcript language: Chinese keeps the original
// traditional-Chinese instructions, everything else gets the English set.

const refinePromptZH = `請修飾下面的逐字稿：
- 盡量保留原意
- 去除贅字
- 加上正確的標點符號
- 修正常見錯字（例如：錯別字、同音字、口誤導致的打錯字）
---
%s
`

const refinePromptEN = `Polish the transcript below:
- Preserve the original meaning
- Remove filler words
- Add correct punctuation
- Fix common transcription errors (typos, homophones, misheard words)
---
%s
`

const summaryPromptZH = `請根據下面的的逐字稿(可能是與心理師談話)，以主要speaker的內容寫一段1000字以內的摘要，講述她最近的生活狀態，請把人物名稱標注在內，用字自然，不要有開會的感覺，修正常見錯別字、類似音的字，繁體中文：

---
%s
`

const summaryPromptEN = `Based on the following transcript (possibly a therapy session), write a summary of up to 1000 words about the main speaker's recent life situation. Include character names, use natural language, avoid meeting-like tone, fix common typos and similar-sounding words:

---
%s
`

const filenamePromptZH = `請根據下面的摘要，生成一個簡短的中文檔名（不超過20個字），用於重命名錄音檔案，不要包含任何前綴，只需主題內容：

---
%s
`

const filenamePromptEN = `Based on the following summary, generate a short English title (no more than 20 words) for renaming the recording file. No prefix, topic only:

---
%s
`

const (
	refineSystemPrompt   = "你是一個優秀的中文逐字稿修飾助手。"
	summarySystemPrompt  = "你是一個優秀的中文摘要助手。"
	filenameSystemPrompt = "You are an assistant that generates concise file names from transcripts."
)

func refinePrompt(lang string) string {
	if isChinese(lang) {
		return refinePromptZH
	}
	return refinePromptEN
}

func summaryPrompt(lang string) string {
	if isChinese(lang) {
		return summaryPromptZH
	}
	return summaryPromptEN
}

func filenamePrompt(lang string) string {
	if isChinese(lang) {
		return filenamePromptZH
	}
	return filenamePromptEN
}

func isChinese(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "zh")
}
