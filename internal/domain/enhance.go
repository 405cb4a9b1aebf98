package domain

// EnhancedDraft is the best-effort prefill produced by the enhancement
// collaborator. It is never authoritative over stored state.
type EnhancedDraft struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedPrice string `json:"estimatedPrice"`
}
