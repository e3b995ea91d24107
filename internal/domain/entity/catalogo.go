package entity

import "time"

// Códigos de las áreas que participan fijo en el flujo.
const (
	AreaCodeFacturacion  = "fact"
	AreaCodeContabilidad = "cont"
	AreaCodeTesoreria    = "tes"
)

// Area unidad organizacional; las que no son Facturación/Contabilidad/Tesorería son áreas responsables.
type Area struct {
	ID     string
	Nombre string
	Code   string
}

// Estado fila del catálogo de estados.
type Estado struct {
	ID      int
	Code    string
	Label   string
	Order   int
	IsFinal bool
}

// CentroCosto catálogo de centros de costo.
type CentroCosto struct {
	ID     string
	Codigo string
	Nombre string
	Activo bool
}

// CentroOperacion siempre pertenece a exactamente un centro de costo.
type CentroOperacion struct {
	ID            string
	CentroCostoID string
	Codigo        string
	Nombre        string
	Activo        bool
}

// UnidadNegocio catálogo de unidades de negocio.
type UnidadNegocio struct {
	ID     string
	Codigo string
	Nombre string
	Activo bool
}

// CuentaAuxiliar catálogo de cuentas auxiliares contables.
type CuentaAuxiliar struct {
	ID     string
	Codigo string
	Nombre string
	Activo bool
}

// FacturaAsignacion historial (solo inserción) de asignaciones a áreas responsables.
type FacturaAsignacion struct {
	ID                string
	FacturaID         string
	AreaID            string
	ResponsableUserID string
	CreatedAt         time.Time
}

// Comentario nota libre de un usuario sobre una factura.
type Comentario struct {
	ID        string
	FacturaID string
	UserID    string
	Contenido string
	CreatedAt time.Time
	UpdatedAt time.Time
}
