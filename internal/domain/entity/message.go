package entity

import "time"

// Message mensaje directo entre dos usuarios, opcionalmente sobre un cultivo.
// Append-only; Read pasa de false a true cuando el receptor abre la conversación.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	ListingID  string // vacío si no refiere a un cultivo
	Body       string
	Read       bool
	CreatedAt  time.Time
}
