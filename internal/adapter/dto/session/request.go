package session

// CreateSessionRequest represents the request to create a training session
type CreateSessionRequest struct {
	UserName        string  `json:"userName" validate:"required,min=1,max=255"`
	CaseType        string  `json:"caseType" validate:"omitempty,max=255"`
	AvatarID        string  `json:"avatarId" validate:"required,avatar_id"`
	Language        string  `json:"language" validate:"omitempty,oneof=en ms zh ta hi"`
	KnowledgeBaseID *string `json:"knowledgeBaseId,omitempty" validate:"omitempty,uuid"`
}

// UpdateSessionRequest carries field changes for a session that has not
// gone live. Absent fields are left untouched.
type UpdateSessionRequest struct {
	UserName        *string `json:"userName,omitempty" validate:"omitempty,min=1,max=255"`
	CaseType        *string `json:"caseType,omitempty" validate:"omitempty,max=255"`
	AvatarID        *string `json:"avatarId,omitempty" validate:"omitempty,avatar_id"`
	Language        *string `json:"language,omitempty" validate:"omitempty,oneof=en ms zh ta hi"`
	KnowledgeBaseID *string `json:"knowledgeBaseId,omitempty" validate:"omitempty,uuid"`
}

// SayRequest represents typed user input submitted to the dialogue
type SayRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
