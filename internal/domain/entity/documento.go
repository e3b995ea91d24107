package entity

import "time"

// DocType tipo de documento soporte adjunto a la factura.
type DocType string

const (
	DocOC                 DocType = "OC" // Orden de compra (admite varios por factura)
	DocOS                 DocType = "OS"
	DocOCT                DocType = "OCT"
	DocECT                DocType = "ECT"
	DocOCC                DocType = "OCC"
	DocEDO                DocType = "EDO"
	DocFCP                DocType = "FCP"
	DocFPC                DocType = "FPC"
	DocEgreso             DocType = "EGRESO"
	DocSoportePago        DocType = "SOPORTE_PAGO"
	DocFacturaPDF         DocType = "FACTURA_PDF"
	DocAprobacionGerencia DocType = "APROBACION_GERENCIA"
	DocPEC                DocType = "PEC"
	DocEC                 DocType = "EC"
	DocPCE                DocType = "PCE"
	DocPED                DocType = "PED"
)

// DocTypes vocabulario completo (orden estable para reportes).
var DocTypes = []DocType{
	DocOC, DocOS, DocOCT, DocECT, DocOCC, DocEDO, DocFCP, DocFPC, DocEgreso, DocSoportePago,
	DocFacturaPDF, DocAprobacionGerencia, DocPEC, DocEC, DocPCE, DocPED,
}

// Valid indica si el tipo pertenece al vocabulario cerrado.
func (d DocType) Valid() bool {
	for _, t := range DocTypes {
		if t == d {
			return true
		}
	}
	return false
}

// AllowsMultiple indica si la factura puede tener varios archivos de este tipo.
func (d DocType) AllowsMultiple() bool {
	return d == DocOC
}

// Proveedores de almacenamiento soportados.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// FacturaFile metadatos de un archivo adjunto; los bytes viven en el almacenamiento externo.
type FacturaFile struct {
	ID              string
	FacturaID       string
	DocType         DocType
	StorageProvider string
	StoragePath     string
	Filename        string
	ContentType     string
	SizeBytes       int64
	UploadedBy      *string
	CreatedAt       time.Time
}
