package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/contabilidadcq-api/internal/application/auth"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/postgres"
)

// usuarioCmd alta directa de usuarios; sirve para crear el primer admin.
var usuarioCmd = &cobra.Command{
	Use:   "usuario-crear",
	Short: "Crea un usuario sin pasar por la API",
	Example: `  cqctl usuario-crear --email admin@cq.co --password 'S3creta!!' --role admin
  cqctl usuario-crear --email jefe@cq.co --password '...' --role responsable --area <area-id>`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := dto.RegisterRequest{}
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		in.Name, _ = cmd.Flags().GetString("name")
		in.Role, _ = cmd.Flags().GetString("role")
		if area, _ := cmd.Flags().GetString("area"); area != "" {
			in.AreaID = &area
		}

		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		uc := auth.NewAuthUseCase(postgres.NewUserRepository(e.pool), postgres.NewCatalogRepository(e.pool), auth.JWTConfig{
			Secret: e.cfg.JWT.Secret, ExpMinutes: e.cfg.JWT.Expiration, Issuer: e.cfg.JWT.Issuer,
		})
		u, err := uc.RegisterUser(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "usuario %s creado (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usuarioCmd)
	f := usuarioCmd.Flags()
	f.String("email", "", "correo")
	f.String("password", "", "contraseña (mínimo 8 caracteres)")
	f.String("name", "", "nombre")
	f.String("role", "", "admin | facturacion | responsable | contabilidad | tesoreria")
	f.String("area", "", "id del área (obligatorio salvo admin)")
	_ = usuarioCmd.MarkFlagRequired("email")
	_ = usuarioCmd.MarkFlagRequired("password")
	_ = usuarioCmd.MarkFlagRequired("role")
}
