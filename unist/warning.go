package unist

// WarningType categorizes processing warnings.
type WarningType string

const (
	WarningUnknownNode    WarningType = "unknown_node"
	WarningUnknownToken   WarningType = "unknown_token"
	WarningDroppedFeature WarningType = "dropped_feature"
)

// Warning represents a non-fatal issue encountered while building or
// serializing a tree.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
