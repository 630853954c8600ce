package admin

import "github.com/clarainova/clara-backend/internal/entity"

// toDocumentDTO converts Document entity to its API representation
func toDocumentDTO(doc *entity.Document) *entity.DocumentDTO {
	return &entity.DocumentDTO{
		ID:             doc.ID,
		Title:          doc.Title,
		Category:       doc.Category,
		Status:         doc.Status,
		ErrorReason:    doc.ErrorReason,
		LastBatchIndex: doc.LastBatchIndex,
		TotalBatches:   doc.TotalBatches,
		ChunkCount:     doc.ChunkCount,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
