package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// HeaderAPIKey cabecera con la llave de las integraciones de ingesta.
const HeaderAPIKey = "X-API-Key"

// IntakeAuth autentica la ingesta de facturas. Una integración con la API key configurada entra
// como actor de sistema con rol facturación; cualquier otra petición debe traer un JWT válido.
// Con apiKey vacío solo se acepta JWT.
func IntakeAuth(apiKey, jwtSecret string) fiber.Handler {
	jwtAuth := AuthMiddleware(jwtSecret)
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderAPIKey)
		if key == "" || apiKey == "" {
			return jwtAuth(c)
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			return writeError(c, errInvalidAPIKey)
		}
		c.Locals(LocalUserID, entity.SystemActor.UserID)
		c.Locals(LocalAreaID, entity.SystemActor.AreaID)
		c.Locals(LocalRole, entity.SystemActor.Role)
		return c.Next()
	}
}
