package models

// ModelDescriptor describes a vehicle model from the fleet table.
type ModelDescriptor struct {
	Model     string `json:"model"`
	Charging  bool   `json:"charging"`
	Streetcar bool   `json:"streetcar"`
}
