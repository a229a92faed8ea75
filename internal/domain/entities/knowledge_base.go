package entities

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeBase is the case material an interviewer avatar is grounded in.
// Content is plain text; the original uploaded file, if any, is archived in
// object storage under StorageKey.
type KnowledgeBase struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	FileName   string    `json:"file_name,omitempty" gorm:"type:varchar(255)"`
	StorageKey string    `json:"storage_key,omitempty" gorm:"type:varchar(512)"`
	BuiltIn    bool      `json:"built_in" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}

// NewKnowledgeBase creates a knowledge base from validated content.
func NewKnowledgeBase(name, content, fileName string) *KnowledgeBase {
	return &KnowledgeBase{
		ID:        uuid.New(),
		Name:      name,
		Content:   content,
		FileName:  fileName,
		CreatedAt: time.Now(),
	}
}
