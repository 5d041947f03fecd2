package model

// FeatureImpact is a single SHAP contribution toward an attrition score.
type FeatureImpact struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

// TopEmployee is the typed shape of a top_employees element.
type TopEmployee struct {
	EmployeeIndex int             `json:"employee_index"`
	Probability   float64         `json:"probability"`
	TopFeatures   []FeatureImpact `json:"top_features"`
}

// Health is the health resource. The live service only fills Status.
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ModelInfo describes the model that produced the scores.
type ModelInfo struct {
	Status         string   `json:"status"`
	ModelLoaded    bool     `json:"model_loaded"`
	PipelineLoaded bool     `json:"pipeline_loaded"`
	ModelType      string   `json:"model_type"`
	Features       []string `json:"features"`
	NFeatures      int      `json:"n_features"`
}

// EndpointIndex is the index resource listing what the export contains.
type EndpointIndex struct {
	AvailableEndpoints []string `json:"available_endpoints"`
	Note               string   `json:"note,omitempty"`
}
