package conf

import "time"

type Bootstrap struct {
	Server   *Server   `json:"server"`
	Llm      *LLM      `json:"llm"`
	Image    *Image    `json:"image"`
	Analysis *Analysis `json:"analysis"`
	Fetch    *Fetch    `json:"fetch"`
	Log      *Log      `json:"log"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type LLM struct {
	BaseUrl    string `json:"base_url"`
	ApiKey     string `json:"api_key"`
	Model      string `json:"model"`
	Qps        int32  `json:"qps"`
	Rpm        int32  `json:"rpm"`
	MaxRetries *int32 `json:"max_retries"` // 缺省为 3，0 表示不重试
	RetryDelay string `json:"retry_delay"`
}

// Image 头图生成接口，Enabled 为 false 时头图分析直接失败
type Image struct {
	Enabled bool   `json:"enabled"`
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Size    string `json:"size"`
}

type Analysis struct {
	Timeout         string            `json:"timeout"`
	ImageSeedWait   string            `json:"image_seed_wait"`
	MaxContentChars int32             `json:"max_content_chars"`
	SessionTtl      string            `json:"session_ttl"`
	Policies        map[string]string `json:"policies"` // kind -> surface | empty | fallback
}

type Fetch struct {
	Timeout      string `json:"timeout"`
	MaxBodyBytes int64  `json:"max_body_bytes"`
	UserAgent    string `json:"user_agent"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Duration 解析配置中的时长字符串，为空或非法时返回默认值
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
