package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleFacturacion  = "facturacion"
	RoleResponsable  = "responsable"
	RoleContabilidad = "contabilidad"
	RoleTesoreria    = "tesoreria"
)

// User representa un usuario del sistema; AreaID es nil para administradores sin área.
type User struct {
	ID           string
	AreaID       *string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsToArea indica si el usuario pertenece al área dada.
func (u *User) BelongsToArea(areaID string) bool {
	return u != nil && u.AreaID != nil && *u.AreaID == areaID
}
