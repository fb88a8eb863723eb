package dto

// GenerateGroupsRequest triggers group generation for a cycle.
type GenerateGroupsRequest struct {
	CycleID string `json:"cycleId" validate:"required"`
	// IDPrefix, when set, derives deterministic group IDs from it. Collisions
	// with existing groups are detected and reported instead of overwritten.
	IDPrefix string `json:"idPrefix" validate:"omitempty,alphanum"`
}

// UnresolvedClass records a professor class name that matched no subject.
type UnresolvedClass struct {
	ProfessorID string `json:"professorId"`
	ClassName   string `json:"className"`
	Reason      string `json:"reason"`
}

// GenerateGroupsResponse summarises a group generation run.
type GenerateGroupsResponse struct {
	CycleID    string            `json:"cycleId"`
	Created    int               `json:"created"`
	Unresolved []UnresolvedClass `json:"unresolved,omitempty"`
}
