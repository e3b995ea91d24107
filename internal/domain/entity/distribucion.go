package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistribucionCCCO línea de reparto porcentual del costo de la factura entre centros.
type DistribucionCCCO struct {
	ID                string
	FacturaID         string
	Linea             int // posición 1..n dentro de la factura
	CentroCostoID     string
	CentroOperacionID string
	UnidadNegocioID   *string
	CuentaAuxiliarID  *string
	Porcentaje        decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
