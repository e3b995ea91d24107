package dto

import "time"

// FacturaFileResponse metadatos de un documento adjunto.
type FacturaFileResponse struct {
	ID              string    `json:"id"`
	FacturaID       string    `json:"factura_id"`
	DocType         string    `json:"doc_type"`
	Filename        string    `json:"filename"`
	ContentType     string    `json:"content_type"`
	SizeBytes       int64     `json:"size_bytes"`
	StorageProvider string    `json:"storage_provider"`
	UploadedBy      *string   `json:"uploaded_by"`
	CreatedAt       time.Time `json:"created_at"`
	URL             string    `json:"url,omitempty"`
}

// ComentarioRequest contenido de un comentario.
type ComentarioRequest struct {
	Contenido string `json:"contenido" validate:"required,max=2000"`
}

// ComentarioResponse comentario de una factura.
type ComentarioResponse struct {
	ID        string    `json:"id"`
	FacturaID string    `json:"factura_id"`
	UserID    string    `json:"user_id"`
	Contenido string    `json:"contenido"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AreaResponse área organizacional.
type AreaResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Code        string `json:"code"`
	Responsable bool   `json:"responsable"`
}

// EstadoResponse estado del flujo.
type EstadoResponse struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Label   string `json:"label"`
	Order   int    `json:"order"`
	IsFinal bool   `json:"is_final"`
}

// CatalogItemResponse fila de un catálogo contable (CC, UN, CA).
type CatalogItemResponse struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

// CentroOperacionResponse centro de operación con su centro de costo.
type CentroOperacionResponse struct {
	CatalogItemResponse
	CentroCostoID string `json:"centro_costo_id"`
}
