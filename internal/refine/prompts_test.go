package refine

import (
	"strings"
	"testing"
)

func TestIsChinese(t *testing.T) {
	for _, lang := range []string{"zh", "ZH", "zh-TW", "zh-cn"} {
		if !isChinese(lang) {
			t.Errorf("isChinese(%q) = false, want true", lang)
		}
	}
	for _, lang := range []string{"en", "ja", "", "cz"} {
		if isChinese(lang) {
			t.Errorf("isChinese(%q) = true, want false", lang)
		}
	}
}

func TestPromptSelection(t *testing.T) {
	if refinePrompt("zh") != refinePromptZH || refinePrompt("en") != refinePromptEN {
		t.Error("refinePrompt selected the wrong template")
	}
	if summaryPrompt("zh") != summaryPromptZH || summaryPrompt("ja") != summaryPromptEN {
		t.Error("summaryPrompt selected the wrong template")
	}
	if filenamePrompt("zh-TW") != filenamePromptZH {
		t.Error("filenamePrompt should treat zh-TW as Chinese")
	}
}

func TestPromptsEmbedTranscript(t *testing.T) {
	for _, p := range []string{
		refinePromptZH, refinePromptEN,
		summaryPromptZH, summaryPromptEN,
		filenamePromptZH, filenamePromptEN,
	} {
		if !strings.Contains(p, "%s") {
			t.Errorf("prompt lacks a %%s slot:\n%s", p)
		}
	}
}
