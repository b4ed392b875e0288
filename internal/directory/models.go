package directory

import "encoding/json"

// Subscriber is the platform's identity for a contact. The platform owns the
// record entirely; this system only carries the ID by value. IDs arrive as
// JSON numbers, so they are kept as json.Number rather than forced into a Go
// numeric type.
type Subscriber struct {
	ID        json.Number `json:"id"`
	FirstName string      `json:"first_name"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
}

// envelope is the platform's uniform response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// customField is one entry of a setCustomFields call.
type customField struct {
	FieldID    int    `json:"field_id"`
	FieldValue string `json:"field_value"`
}

// Custom field ids assigned by the platform account.
const (
	fieldIDCPF     = 11439006
	fieldIDCompany = 11888545
	fieldIDCRM     = 12023729
)
