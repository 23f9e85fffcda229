package explain

import (
	"strings"

	"github.com/oukeidos/wordlens/internal/openai"
)

// Preset is a known OpenAI-compatible provider.
type Preset struct {
	Name    string
	BaseURL string
	Model   string
}

var Presets = []Preset{
	{Name: "openai", BaseURL: "https://api.openai.com/v1/chat/completions", Model: "gpt-3.5-turbo"},
	{Name: "siliconflow", BaseURL: "https://api.siliconflow.cn/v1/chat/completions", Model: "Qwen/Qwen2.5-7B-Instruct"},
	{Name: "deepseek", BaseURL: "https://api.deepseek.com/v1/chat/completions", Model: "deepseek-chat"},
	{Name: "moonshot", BaseURL: "https://api.moonshot.cn/v1/chat/completions", Model: "moonshot-v1-8k"},
	{Name: "zhipu", BaseURL: "https://open.bigmodel.cn/api/paas/v4/chat/completions", Model: "glm-4-flash"},
}

// PresetByName looks a preset up by its short name.
func PresetByName(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetFor matches baseURL against the presets after normalization. An
// empty baseURL matches the OpenAI preset.
func PresetFor(baseURL string) (Preset, bool) {
	want := openai.NormalizeBaseURL(baseURL)
	for _, p := range Presets {
		if openai.NormalizeBaseURL(p.BaseURL) == want {
			return p, true
		}
	}
	return Preset{}, false
}
