package types

// CognitiveState is the global four-component vector modulating physics
// and visuals. Every component lives in [0,1].
type CognitiveState struct {
	Confidence    float64 `json:"confidence"`
	Misconception float64 `json:"misconception"`
	Fog           float64 `json:"fog"`
	Knowingness   float64 `json:"knowingness"`
}

// Clamp returns the state with every component clamped to [0,1]
func (s CognitiveState) Clamp() CognitiveState {
	return CognitiveState{
		Confidence:    unit(s.Confidence),
		Misconception: unit(s.Misconception),
		Fog:           unit(s.Fog),
		Knowingness:   unit(s.Knowingness),
	}
}

func unit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
