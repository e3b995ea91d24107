package entity

// Actor identidad de quien ejecuta una operación. Se pasa explícito a cada caso de uso.
type Actor struct {
	UserID string
	Role   string
	AreaID string // Vacío para administradores o integraciones sin área
}

// SystemActor actor de las integraciones autenticadas con API key (ingesta).
var SystemActor = Actor{Role: RoleFacturacion}

// IsAdmin indica si el actor tiene rol admin.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// HasRole indica si el actor es admin o tiene alguno de los roles dados.
func (a Actor) HasRole(roles ...string) bool {
	if a.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// UserRef puntero al id del usuario o nil si el actor no es un usuario.
func (a Actor) UserRef() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
