package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del flujo de la factura (ids fijos, replicados en la tabla estados).
const (
	EstadoRecibida       = 1 // En Facturación, recién ingresada
	EstadoAsignada       = 2 // En el área responsable
	EstadoEnContabilidad = 3
	EstadoEnTesoreria    = 4
	EstadoFinalizada     = 5 // Cerrada en Tesorería
)

// EstadoCodes relaciona el id del estado con su código estable.
var EstadoCodes = map[int]string{
	EstadoRecibida:       "RECIBIDA",
	EstadoAsignada:       "ASIGNADA",
	EstadoEnContabilidad: "EN_CONTABILIDAD",
	EstadoEnTesoreria:    "EN_TESORERIA",
	EstadoFinalizada:     "FINALIZADA",
}

// EstadoCode devuelve el código del estado o "DESCONOCIDO".
func EstadoCode(id int) string {
	if c, ok := EstadoCodes[id]; ok {
		return c
	}
	return "DESCONOCIDO"
}

// DestinoInventarios indica a dónde entra la mercancía cuando la factura requiere entrada de inventarios.
type DestinoInventarios string

const (
	DestinoTienda  DestinoInventarios = "TIENDA"
	DestinoAlmacen DestinoInventarios = "ALMACEN"
)

// Valid indica si el destino pertenece al catálogo cerrado.
func (d DestinoInventarios) Valid() bool {
	return d == DestinoTienda || d == DestinoAlmacen
}

// Precisión con la que se persisten los importes de la factura.
const (
	DecimalesMoneda   = 2
	DecimalesAnticipo = 2
)

// IntervaloEntrega es el plazo de entrega a Contabilidad.
type IntervaloEntrega string

const (
	Intervalo1Semana  IntervaloEntrega = "1_SEMANA"
	Intervalo2Semanas IntervaloEntrega = "2_SEMANAS"
	Intervalo3Semanas IntervaloEntrega = "3_SEMANAS"
	Intervalo1Mes     IntervaloEntrega = "1_MES"
)

// Valid indica si el intervalo pertenece al catálogo cerrado.
func (i IntervaloEntrega) Valid() bool {
	switch i {
	case Intervalo1Semana, Intervalo2Semanas, Intervalo3Semanas, Intervalo1Mes:
		return true
	}
	return false
}

// Factura es la raíz del agregado. Sus colecciones hijas (códigos de inventario,
// distribución CC/CO, archivos) se cargan por separado.
type Factura struct {
	ID               string
	Proveedor        string
	ProveedorNIT     string // Opcional; se llena en la ingesta UBL
	NumeroFactura    string // Único junto con Proveedor
	FechaEmision     *time.Time
	FechaVencimiento *time.Time
	Total            decimal.Decimal

	AreaID           string
	EstadoID         int
	AreaOrigenID     *string // Primera área responsable; se fija una sola vez
	AssignedToUserID *string
	AssignedAt       *time.Time

	CentroCostoID     *string
	CentroOperacionID *string
	UnidadNegocioID   *string
	CuentaAuxiliarID  *string

	RequiereEntradaInventarios bool
	DestinoInventarios         *DestinoInventarios
	PresentaNovedad            bool

	TieneAnticipo                bool
	PorcentajeAnticipo           *decimal.Decimal
	IntervaloEntregaContabilidad IntervaloEntrega

	EsGastoAdm       bool
	MotivoDevolucion *string

	Version   int // Concurrencia optimista
	CreatedAt time.Time
	UpdatedAt time.Time
}
