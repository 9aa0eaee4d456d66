package models

// Customer — каноническая форма записи клиента.
type Customer struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone,omitempty"`
	Address   map[string]any `json:"address,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	Deleted   bool           `json:"deleted,omitempty"`
	Version   int64          `json:"version,omitempty"`
}
