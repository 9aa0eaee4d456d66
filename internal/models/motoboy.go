package models

// MotoboyStatusAvailable — статус курьера по умолчанию.
const MotoboyStatusAvailable = "available"

// Tip — чаевые курьера. Новые записи добавляются в начало списка.
type Tip struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note"`
	At        string  `json:"at"`
	CreatedAt string  `json:"createdAt"`
}

// Motoboy — каноническая форма записи курьера.
// Инвариант: TipsTotal всегда равен сумме Tips[*].Amount.
type Motoboy struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone,omitempty"`
	Active    bool    `json:"active"`
	Status    string  `json:"status"`
	QRToken   string  `json:"qrToken,omitempty"`
	Tips      []Tip   `json:"tips"`
	TipsTotal float64 `json:"tipsTotal"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
	Deleted   bool    `json:"deleted,omitempty"`
	Version   int64   `json:"version,omitempty"`
}
