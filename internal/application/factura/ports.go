package factura

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// SupplierInvoice datos de la factura electrónica del proveedor necesarios para la ingesta.
type SupplierInvoice struct {
	Numero           string
	Proveedor        string
	ProveedorNIT     string
	ProveedorDV      string
	InvoiceTypeCode  string
	FechaEmision     *time.Time
	FechaVencimiento *time.Time
	Total            decimal.Decimal
	CUFE             string
}

// UBLParser lee la factura electrónica del proveedor (UBL 2.1 DIAN).
type UBLParser interface {
	Parse(data []byte) (*SupplierInvoice, error)
}

// HojaRutaRenderer genera el PDF de la hoja de ruta de la factura.
type HojaRutaRenderer interface {
	RenderHojaRuta(ctx context.Context, data *HojaRutaData) ([]byte, error)
}

// HojaRutaData todo lo que se imprime en la hoja de ruta, ya resuelto a etiquetas legibles.
type HojaRutaData struct {
	Factura         *entity.Factura
	Estado          string
	Area            string
	AreaOrigen      string
	AsignadoA       string
	CentroCosto     string
	CentroOperacion string
	UnidadNegocio   string
	CuentaAuxiliar  string
	Codigos         []entity.FacturaInventarioCodigo
	Distribucion    []HojaRutaLinea
	Asignaciones    []HojaRutaAsignacion
	Documentos      []*entity.FacturaFile
	GeneradoEn      time.Time
}

// HojaRutaLinea línea de distribución con etiquetas.
type HojaRutaLinea struct {
	CentroCosto     string
	CentroOperacion string
	Porcentaje      decimal.Decimal
}

// HojaRutaAsignacion entrada del historial de asignaciones.
type HojaRutaAsignacion struct {
	Fecha       time.Time
	Area        string
	Responsable string
}
