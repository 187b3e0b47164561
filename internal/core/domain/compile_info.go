package domain

import "time"

// CompileInfo records the outcome of one preprocessor run so an unchanged
// source can be reused from the cache in a later build.
type CompileInfo struct {
	Source     string    `json:"source,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Deps       []string  `json:"deps,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
