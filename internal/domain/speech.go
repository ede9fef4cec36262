package domain

// SynthesisParams are the generation parameters sent to the speech server
type SynthesisParams struct {
	TextInput        string  `json:"text_input"`
	AudioPromptInput *string `json:"audio_prompt_input"`
	MaxNewTokens     int     `json:"max_new_tokens"`
	CFGScale         float64 `json:"cfg_scale"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	CFGFilterTopK    int     `json:"cfg_filter_top_k"`
	SpeedFactor      float64 `json:"speed_factor"`
}
