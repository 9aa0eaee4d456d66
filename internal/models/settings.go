package models

// Settings — единый документ настроек. Хранится как свободная карта,
// потому что UI дописывает в него произвольные секции.
type Settings map[string]any

// Operator — учётная запись оператора кассы внутри документа настроек.
type Operator struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PINHash string `json:"pinHash"`
}
