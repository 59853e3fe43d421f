package dto

// SequenceStatus is one numbering series of a tenant for a year.
type SequenceStatus struct {
	DocumentType string `json:"document_type"`
	Year         int    `json:"year"`
	Prefix       string `json:"prefix"`
	Issued       int64  `json:"issued"`
	LastNumber   string `json:"last_number,omitempty"`
	NextNumber   string `json:"next_number"`
}
