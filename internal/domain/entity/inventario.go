package entity

import "time"

// CodigoInventario es uno de los códigos de soporte de entrada de inventarios.
type CodigoInventario string

const (
	CodigoOCT CodigoInventario = "OCT"
	CodigoECT CodigoInventario = "ECT"
	CodigoFPC CodigoInventario = "FPC"
	CodigoOCC CodigoInventario = "OCC"
	CodigoEDO CodigoInventario = "EDO"
	CodigoNP  CodigoInventario = "NP" // Reservado para reportar novedad
)

// Valid indica si el código pertenece al catálogo cerrado.
func (c CodigoInventario) Valid() bool {
	switch c {
	case CodigoOCT, CodigoECT, CodigoFPC, CodigoOCC, CodigoEDO, CodigoNP:
		return true
	}
	return false
}

// CodigosBasePorDestino códigos obligatorios según el destino de la mercancía.
var CodigosBasePorDestino = map[DestinoInventarios][]CodigoInventario{
	DestinoTienda:  {CodigoOCT, CodigoECT, CodigoFPC},
	DestinoAlmacen: {CodigoOCC, CodigoEDO, CodigoFPC},
}

// FacturaInventarioCodigo valor de un código de inventario de la factura (único por factura+código).
type FacturaInventarioCodigo struct {
	FacturaID string
	Codigo    CodigoInventario
	Valor     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
