package model

const (
	DocumentTypeLaw         = "law"
	DocumentTypeRegulation  = "regulation"
	DocumentTypeService     = "service"
	DocumentTypeInformation = "information"
)

const (
	DocumentStatusActive   = "active"
	DocumentStatusInactive = "inactive"
	DocumentStatusArchived = "archived"
)

type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	DocNumber   string `json:"doc_number"`
	PublishedAt string `json:"published_at"`
	Status      string `json:"status"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}

func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeLaw, DocumentTypeRegulation, DocumentTypeService, DocumentTypeInformation:
		return true
	}
	return false
}

func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentStatusActive, DocumentStatusInactive, DocumentStatusArchived:
		return true
	}
	return false
}

type DocumentStats struct {
	TotalDocuments int64            `json:"total_documents"`
	TotalChunks    int64            `json:"total_chunks"`
	ByType         map[string]int64 `json:"by_type"`
	ByCategory     map[string]int64 `json:"by_category"`
}
