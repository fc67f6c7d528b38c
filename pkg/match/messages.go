package match

const (
	MsgMissingAPIKey     = "Missing API key: set GEMINI_API_KEY in .env"
	MsgQuotaExceeded     = "Quota exceeded: wait a few seconds or use a lighter model."
	MsgUnknownGeneration = "Unknown error during generation."
	MsgUnknownStoreError = "Unknown data store error."

	MsgNoModels       = "No models available"
	MsgNoMethods      = "no methods"
	PrefixModelsError = "Google listModels error: "

	PrefixStoreOK    = "Data store OK: "
	PrefixStoreError = "Data store error: "
	MsgStoreUnknown  = "unknown"

	detailsSeparator = "\n\nDetails:\n"
)
