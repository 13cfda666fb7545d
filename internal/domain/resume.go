package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Resume is a user's saved résumé. Content is kept as the raw JSON document
// the builder submitted so a save followed by a fetch returns it unchanged.
type Resume struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"ownerId"`
	Title     string          `json:"title"`
	Template  TemplateKind    `json:"template"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
