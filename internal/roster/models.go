package roster

// Professional is the canonical record produced by shift aggregation. The
// JSON field names follow the scheduling source's wire format so the snapshot
// file stays compatible with it.
type Professional struct {
	Name string `json:"profissionalPlantaoNome"`
	CPF  string `json:"profissionalPlantaoCpf"`
}

// Contact is one CSV onboarding row. CPF and CRM are optional columns; when
// absent the custom-field update is skipped for that record.
type Contact struct {
	Name    string
	Phone   string
	Email   string
	Company string
	CPF     string
	CRM     string
}

// WhatsAppPhone derives the internationally prefixed phone variant the chat
// platform expects alongside the national number.
func (c Contact) WhatsAppPhone() string {
	if c.Phone == "" {
		return ""
	}
	return "55" + c.Phone
}
