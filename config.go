package roomservice

// ServiceConfig holds the knobs for a room-service session.
type ServiceConfig struct {
	MenuPath         string `env:"MENU_PATH,default=artifacts/menu.json"`
	MaxRounds        int    `env:"MAX_ROUNDS,default=5"`
	WebhookURL       string `env:"WEBHOOK_URL,default="`
	NotifyStation    string `env:"NOTIFY_STATION,default=#kitchen"`
	SimulateFailures bool   `env:"SIMULATE_FAILURES,default=false"`
	SimulateLatency  bool   `env:"SIMULATE_LATENCY,default=false"`
}

// ModelConfig configures the Bedrock-backed order extractor.
type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}
