package cli

import (
	"github.com/posener/complete"

	"github.com/semmy-space/llmkeys/internal/keys"
)

// KeyNamePredictor completes stored key names for arguments tagged
// predictor:"key". An unreadable store yields no suggestions.
func KeyNamePredictor(store *keys.Store) complete.Predictor {
	return complete.PredictFunc(func(complete.Args) []string {
		names, err := store.List()
		if err != nil {
			return nil
		}
		return names
	})
}
