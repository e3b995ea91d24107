package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFacturaRequest ingesta manual o por integración de una factura de proveedor.
// Las fechas usan el formato YYYY-MM-DD.
type CreateFacturaRequest struct {
	Proveedor                    string          `json:"proveedor" validate:"required,max=255"`
	ProveedorNIT                 string          `json:"proveedor_nit"`
	NumeroFactura                string          `json:"numero_factura" validate:"required,max=100"`
	FechaEmision                 string          `json:"fecha_emision"`
	FechaVencimiento             string          `json:"fecha_vencimiento"`
	Total                        decimal.Decimal `json:"total" validate:"required"`
	IntervaloEntregaContabilidad string          `json:"intervalo_entrega_contabilidad"`
}

// FacturaListQuery filtros del listado.
type FacturaListQuery struct {
	PageRequest
	AreaID     string `query:"area_id"`
	EstadoID   int    `query:"estado_id"`
	AssignedTo string `query:"assigned_to"`
	Search     string `query:"q"`
}

// UpdateCentrosRequest clasificación contable de la factura.
type UpdateCentrosRequest struct {
	CentroCostoID     *string `json:"centro_costo_id"`
	CentroOperacionID *string `json:"centro_operacion_id"`
	UnidadNegocioID   *string `json:"unidad_negocio_id"`
	CuentaAuxiliarID  *string `json:"cuenta_auxiliar_id"`
}

// InventarioCodigoDTO código de inventario con su valor.
type InventarioCodigoDTO struct {
	Codigo string `json:"codigo"`
	Valor  string `json:"valor"`
}

// UpdateInventariosRequest sección de entrada de inventarios. Los códigos se reemplazan completos.
type UpdateInventariosRequest struct {
	RequiereEntradaInventarios bool                  `json:"requiere_entrada_inventarios"`
	DestinoInventarios         *string               `json:"destino_inventarios"`
	PresentaNovedad            bool                  `json:"presenta_novedad"`
	Codigos                    []InventarioCodigoDTO `json:"codigos"`
}

// UpdateAnticipoRequest sección de anticipo y plazo de entrega a Contabilidad.
type UpdateAnticipoRequest struct {
	TieneAnticipo                bool             `json:"tiene_anticipo"`
	PorcentajeAnticipo           *decimal.Decimal `json:"porcentaje_anticipo"`
	IntervaloEntregaContabilidad string           `json:"intervalo_entrega_contabilidad"`
}

// UpdateGastoAdmRequest marca de gasto administrativo.
type UpdateGastoAdmRequest struct {
	EsGastoAdm bool `json:"es_gasto_adm"`
}

// FacturaResponse proyección de la factura.
type FacturaResponse struct {
	ID               string          `json:"id"`
	Proveedor        string          `json:"proveedor"`
	ProveedorNIT     string          `json:"proveedor_nit,omitempty"`
	NumeroFactura    string          `json:"numero_factura"`
	FechaEmision     *time.Time      `json:"fecha_emision"`
	FechaVencimiento *time.Time      `json:"fecha_vencimiento"`
	Total            decimal.Decimal `json:"total"`

	AreaID           string     `json:"area_id"`
	EstadoID         int        `json:"estado_id"`
	Estado           string     `json:"estado"`
	AreaOrigenID     *string    `json:"area_origen_id"`
	AssignedToUserID *string    `json:"assigned_to_user_id"`
	AssignedAt       *time.Time `json:"assigned_at"`

	CentroCostoID     *string `json:"centro_costo_id"`
	CentroOperacionID *string `json:"centro_operacion_id"`
	UnidadNegocioID   *string `json:"unidad_negocio_id"`
	CuentaAuxiliarID  *string `json:"cuenta_auxiliar_id"`

	RequiereEntradaInventarios bool                  `json:"requiere_entrada_inventarios"`
	DestinoInventarios         *string               `json:"destino_inventarios"`
	PresentaNovedad            bool                  `json:"presenta_novedad"`
	Codigos                    []InventarioCodigoDTO `json:"codigos,omitempty"`

	TieneAnticipo                bool             `json:"tiene_anticipo"`
	PorcentajeAnticipo           *decimal.Decimal `json:"porcentaje_anticipo"`
	IntervaloEntregaContabilidad string           `json:"intervalo_entrega_contabilidad"`

	EsGastoAdm       bool    `json:"es_gasto_adm"`
	MotivoDevolucion *string `json:"motivo_devolucion"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FacturaListResponse página de facturas.
type FacturaListResponse struct {
	Items []FacturaResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
