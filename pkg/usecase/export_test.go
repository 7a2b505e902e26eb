package usecase

// Exported for testing
var (
	ValidateTurnResult   = validateTurnResult
	ApplySafetyGate      = applySafetyGate
	BuildSystemPrompt    = buildSystemPrompt
	TurnResponseSchema   = turnResponseSchema
	IsDistressTranscript = isDistressTranscript
	IsHaltTranscript     = isHaltTranscript
	TrimCodeFence        = trimCodeFence
)

const (
	FallbackSpeech = fallbackSpeech
	HaltSpeech     = haltSpeech
	FaultedSpeech  = faultedSpeech
)
