package documents

import "time"

// Document is a file attached to a family record (ids, proof of address,
// photos of the home).
type Document struct {
	ID              string    `json:"documentId"`
	FamilyID        string    `json:"familyId"`
	MentorID        string    `json:"-"`
	FileName        string    `json:"fileName"`
	MimeType        string    `json:"mimeType"`
	SizeBytes       int64     `json:"sizeBytes"`
	StorageProvider string    `json:"-"`
	StorageKey      string    `json:"-"`
	CreatedAt       time.Time `json:"uploadedAt"`
}
