package model

// Chunk is the unit of embedding and retrieval. Chunk rows are created and
// deleted together with their document; they are never updated in place.
type Chunk struct {
	ID         int64     `json:"id"`
	DocumentID string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
	Ctime      int64     `json:"ctime"`
}

// ChunkWithDocument joins a chunk with the metadata of its source document,
// as read by the retrieval scan.
type ChunkWithDocument struct {
	Chunk
	DocTitle    string `json:"doc_title"`
	DocType     string `json:"doc_type"`
	DocCategory string `json:"doc_category"`
	DocNumber   string `json:"doc_number"`
}
