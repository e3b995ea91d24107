// Package memory implementa los puertos de repositorio en memoria. Lo usan las pruebas de casos
// de uso y de handlers, y el CLI para validar facturas exportadas sin base de datos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

// state datos del almacén; se clona al iniciar cada transacción para poder revertir.
type state struct {
	facturas         map[string]entity.Factura
	codigos          map[string][]entity.FacturaInventarioCodigo
	distribucion     map[string][]entity.DistribucionCCCO
	files            []entity.FacturaFile
	asignaciones     []entity.FacturaAsignacion
	comentarios      []entity.Comentario
	areas            map[string]entity.Area
	estados          []entity.Estado
	centrosCosto     map[string]entity.CentroCosto
	centrosOperacion map[string]entity.CentroOperacion
	unidades         map[string]entity.UnidadNegocio
	cuentas          map[string]entity.CuentaAuxiliar
	users            map[string]entity.User
}

func (s *state) clone() *state {
	c := &state{
		facturas:         make(map[string]entity.Factura, len(s.facturas)),
		codigos:          make(map[string][]entity.FacturaInventarioCodigo, len(s.codigos)),
		distribucion:     make(map[string][]entity.DistribucionCCCO, len(s.distribucion)),
		files:            append([]entity.FacturaFile(nil), s.files...),
		asignaciones:     append([]entity.FacturaAsignacion(nil), s.asignaciones...),
		comentarios:      append([]entity.Comentario(nil), s.comentarios...),
		areas:            s.areas,
		estados:          s.estados,
		centrosCosto:     s.centrosCosto,
		centrosOperacion: s.centrosOperacion,
		unidades:         s.unidades,
		cuentas:          s.cuentas,
		users:            s.users,
	}
	for k, v := range s.facturas {
		c.facturas[k] = v
	}
	for k, v := range s.codigos {
		c.codigos[k] = append([]entity.FacturaInventarioCodigo(nil), v...)
	}
	for k, v := range s.distribucion {
		c.distribucion[k] = append([]entity.DistribucionCCCO(nil), v...)
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un único mutex.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ repository.TxRunner = (*Store)(nil)

// NewStore crea el almacén con el catálogo de estados cargado.
func NewStore() *Store {
	return &Store{
		now: time.Now,
		st: &state{
			facturas:         map[string]entity.Factura{},
			codigos:          map[string][]entity.FacturaInventarioCodigo{},
			distribucion:     map[string][]entity.DistribucionCCCO{},
			areas:            map[string]entity.Area{},
			centrosCosto:     map[string]entity.CentroCosto{},
			centrosOperacion: map[string]entity.CentroOperacion{},
			unidades:         map[string]entity.UnidadNegocio{},
			cuentas:          map[string]entity.CuentaAuxiliar{},
			users:            map[string]entity.User{},
			estados: []entity.Estado{
				{ID: entity.EstadoRecibida, Code: "RECIBIDA", Label: "Recibida", Order: 1},
				{ID: entity.EstadoAsignada, Code: "ASIGNADA", Label: "Asignada", Order: 2},
				{ID: entity.EstadoEnContabilidad, Code: "EN_CONTABILIDAD", Label: "En Contabilidad", Order: 3},
				{ID: entity.EstadoEnTesoreria, Code: "EN_TESORERIA", Label: "En Tesorería", Order: 4},
				{ID: entity.EstadoFinalizada, Code: "FINALIZADA", Label: "Finalizada", Order: 5, IsFinal: true},
			},
		},
	}
}

// WithClock reemplaza el reloj usado en las marcas de tiempo de los hijos (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Run ejecuta fn con repos atados a una copia del estado; si fn falla se descarta la copia.
func (s *Store) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(s.repos(tx, false)); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.TxRepos {
	return s.repos(nil, true)
}

func (s *Store) repos(tx *state, lock bool) repository.TxRepos {
	b := base{store: s, tx: tx, lock: lock}
	return repository.TxRepos{
		Facturas:     &facturaRepo{b},
		Codigos:      &codigoRepo{b},
		Distribucion: &distribucionRepo{b},
		Files:        &fileRepo{b},
		Asignaciones: &asignacionRepo{b},
		Catalogo:     &catalogRepo{b},
		Users:        &userRepo{b},
	}
}

// Comentarios repositorio de comentarios (no participa en las transacciones del flujo).
func (s *Store) Comentarios() repository.ComentarioRepository {
	return &comentarioRepo{base{store: s, lock: true}}
}

// base resuelve el estado sobre el que opera un repo.
type base struct {
	store *Store
	tx    *state
	lock  bool
}

func (b base) with(fn func(st *state) error) error {
	if b.lock {
		b.store.mu.Lock()
		defer b.store.mu.Unlock()
		return fn(b.store.st)
	}
	return fn(b.tx)
}

// ── Semillas ──────────────────────────────────────────────────────────────────

// AddArea registra un área y devuelve su id.
func (s *Store) AddArea(nombre, code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.areas[id] = entity.Area{ID: id, Nombre: nombre, Code: code}
	return id
}

// AddUser registra un usuario activo y devuelve su id.
func (s *Store) AddUser(u entity.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	s.st.users[u.ID] = u
	return u.ID
}

// AddCentroCosto registra un centro de costo activo.
func (s *Store) AddCentroCosto(codigo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.centrosCosto[id] = entity.CentroCosto{ID: id, Codigo: codigo, Nombre: "Centro " + codigo, Activo: true}
	return id
}

// AddCentroOperacion registra un centro de operación dentro del centro de costo.
func (s *Store) AddCentroOperacion(centroCostoID, codigo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.centrosOperacion[id] = entity.CentroOperacion{ID: id, CentroCostoID: centroCostoID, Codigo: codigo, Nombre: "Operación " + codigo, Activo: true}
	return id
}

// AddUnidadNegocio registra una unidad de negocio activa.
func (s *Store) AddUnidadNegocio(codigo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.unidades[id] = entity.UnidadNegocio{ID: id, Codigo: codigo, Nombre: "Unidad " + codigo, Activo: true}
	return id
}

// AddCuentaAuxiliar registra una cuenta auxiliar activa.
func (s *Store) AddCuentaAuxiliar(codigo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.cuentas[id] = entity.CuentaAuxiliar{ID: id, Codigo: codigo, Nombre: "Cuenta " + codigo, Activo: true}
	return id
}

// PutFactura inserta o reemplaza la factura tal cual (sin control de versión).
func (s *Store) PutFactura(f entity.Factura) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Version == 0 {
		f.Version = 1
	}
	s.st.facturas[f.ID] = f
}

// Factura copia de la factura almacenada (nil si no existe).
func (s *Store) Factura(id string) *entity.Factura {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.st.facturas[id]
	if !ok {
		return nil
	}
	return &f
}

// ── Facturas ──────────────────────────────────────────────────────────────────

type facturaRepo struct{ base }

func (r *facturaRepo) Create(_ context.Context, f *entity.Factura) error {
	return r.with(func(st *state) error {
		for _, x := range st.facturas {
			if x.Proveedor == f.Proveedor && x.NumeroFactura == f.NumeroFactura {
				return fmt.Errorf("%w: ya existe la factura %s del proveedor %s", domain.ErrDuplicate, f.NumeroFactura, f.Proveedor)
			}
		}
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		st.facturas[f.ID] = *f
		return nil
	})
}

func (r *facturaRepo) GetByID(_ context.Context, id string) (*entity.Factura, error) {
	var out *entity.Factura
	err := r.with(func(st *state) error {
		if f, ok := st.facturas[id]; ok {
			out = &f
		}
		return nil
	})
	return out, err
}

func (r *facturaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Factura, error) {
	return r.GetByID(ctx, id)
}

func (r *facturaRepo) Update(_ context.Context, f *entity.Factura) error {
	return r.with(func(st *state) error {
		cur, ok := st.facturas[f.ID]
		if !ok || cur.Version != f.Version {
			return fmt.Errorf("%w: la factura %s cambió desde que se leyó (versión %d)", domain.ErrConflict, f.ID, f.Version)
		}
		if f.TieneAnticipo != (f.PorcentajeAnticipo != nil) {
			return fmt.Errorf("%w: anticipo inconsistente", domain.ErrInvariantViolation)
		}
		f.Version++
		st.facturas[f.ID] = *f
		return nil
	})
}

func (r *facturaRepo) List(_ context.Context, filter repository.FacturaFilter) ([]*entity.Factura, int, error) {
	var out []*entity.Factura
	err := r.with(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		for _, f := range st.facturas {
			if filter.AreaID != "" && f.AreaID != filter.AreaID {
				continue
			}
			if filter.EstadoID > 0 && f.EstadoID != filter.EstadoID {
				continue
			}
			if filter.AssignedToUserID != "" && (f.AssignedToUserID == nil || *f.AssignedToUserID != filter.AssignedToUserID) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(f.Proveedor), search) &&
				!strings.Contains(strings.ToLower(f.NumeroFactura), search) {
				continue
			}
			f := f
			out = append(out, &f)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if filter.Offset >= len(out) {
		return []*entity.Factura{}, total, err
	}
	out = out[filter.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, err
}

// ── Códigos de inventario ────────────────────────────────────────────────────

type codigoRepo struct{ base }

func (r *codigoRepo) ListByFactura(_ context.Context, facturaID string) ([]entity.FacturaInventarioCodigo, error) {
	var out []entity.FacturaInventarioCodigo
	err := r.with(func(st *state) error {
		out = append(out, st.codigos[facturaID]...)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, err
}

func (r *codigoRepo) Replace(_ context.Context, facturaID string, codigos []entity.FacturaInventarioCodigo) error {
	return r.with(func(st *state) error {
		now := r.store.now()
		prev := make(map[entity.CodigoInventario]entity.FacturaInventarioCodigo)
		for _, c := range st.codigos[facturaID] {
			prev[c.Codigo] = c
		}
		next := make([]entity.FacturaInventarioCodigo, 0, len(codigos))
		for _, c := range codigos {
			c.FacturaID = facturaID
			c.CreatedAt, c.UpdatedAt = now, now
			if p, ok := prev[c.Codigo]; ok {
				c.CreatedAt = p.CreatedAt
			}
			next = append(next, c)
		}
		st.codigos[facturaID] = next
		return nil
	})
}

// ── Distribución ─────────────────────────────────────────────────────────────

type distribucionRepo struct{ base }

func (r *distribucionRepo) ListByFactura(_ context.Context, facturaID string) ([]entity.DistribucionCCCO, error) {
	var out []entity.DistribucionCCCO
	err := r.with(func(st *state) error {
		out = append(out, st.distribucion[facturaID]...)
		return nil
	})
	return out, err
}

func (r *distribucionRepo) ReplaceAll(_ context.Context, facturaID string, lines []entity.DistribucionCCCO) error {
	return r.with(func(st *state) error {
		now := r.store.now()
		next := make([]entity.DistribucionCCCO, 0, len(lines))
		for i, l := range lines {
			if l.ID == "" {
				l.ID = uuid.New().String()
			}
			l.FacturaID, l.Linea = facturaID, i+1
			l.CreatedAt, l.UpdatedAt = now, now
			next = append(next, l)
		}
		if len(next) == 0 {
			delete(st.distribucion, facturaID)
			return nil
		}
		st.distribucion[facturaID] = next
		return nil
	})
}

func (r *distribucionRepo) DeleteAll(_ context.Context, facturaID string) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		n = int64(len(st.distribucion[facturaID]))
		delete(st.distribucion, facturaID)
		return nil
	})
	return n, err
}

// ── Archivos ─────────────────────────────────────────────────────────────────

type fileRepo struct{ base }

func (r *fileRepo) Create(_ context.Context, f *entity.FacturaFile) error {
	return r.with(func(st *state) error {
		if _, ok := st.facturas[f.FacturaID]; !ok {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, f.FacturaID)
		}
		if !f.DocType.AllowsMultiple() {
			for _, x := range st.files {
				if x.FacturaID == f.FacturaID && x.DocType == f.DocType {
					return fmt.Errorf("%w: la factura ya tiene un documento %s", domain.ErrDuplicate, f.DocType)
				}
			}
		}
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = r.store.now()
		}
		st.files = append(st.files, *f)
		return nil
	})
}

func (r *fileRepo) GetByID(_ context.Context, id string) (*entity.FacturaFile, error) {
	var out *entity.FacturaFile
	err := r.with(func(st *state) error {
		for _, f := range st.files {
			if f.ID == id {
				f := f
				out = &f
			}
		}
		return nil
	})
	return out, err
}

func (r *fileRepo) ListByFactura(_ context.Context, facturaID string, docType entity.DocType) ([]*entity.FacturaFile, error) {
	var out []*entity.FacturaFile
	err := r.with(func(st *state) error {
		for _, f := range st.files {
			if f.FacturaID == facturaID && (docType == "" || f.DocType == docType) {
				f := f
				out = append(out, &f)
			}
		}
		return nil
	})
	return out, err
}

func (r *fileRepo) DocTypes(_ context.Context, facturaID string) ([]entity.DocType, error) {
	var out []entity.DocType
	err := r.with(func(st *state) error {
		seen := map[entity.DocType]bool{}
		for _, f := range st.files {
			if f.FacturaID == facturaID && !seen[f.DocType] {
				seen[f.DocType] = true
				out = append(out, f.DocType)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, err
}

func (r *fileRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		for i, f := range st.files {
			if f.ID == id {
				st.files = append(st.files[:i:i], st.files[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// ── Asignaciones ─────────────────────────────────────────────────────────────

type asignacionRepo struct{ base }

func (r *asignacionRepo) Create(_ context.Context, a *entity.FacturaAsignacion) error {
	return r.with(func(st *state) error {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		st.asignaciones = append(st.asignaciones, *a)
		return nil
	})
}

func (r *asignacionRepo) ListByFactura(_ context.Context, facturaID string) ([]*entity.FacturaAsignacion, error) {
	var out []*entity.FacturaAsignacion
	err := r.with(func(st *state) error {
		for _, a := range st.asignaciones {
			if a.FacturaID == facturaID {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}

// ── Comentarios ──────────────────────────────────────────────────────────────

type comentarioRepo struct{ base }

func (r *comentarioRepo) Create(_ context.Context, c *entity.Comentario) error {
	return r.with(func(st *state) error {
		if _, ok := st.facturas[c.FacturaID]; !ok {
			return fmt.Errorf("%w: factura o usuario del comentario", domain.ErrNotFound)
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		st.comentarios = append(st.comentarios, *c)
		return nil
	})
}

func (r *comentarioRepo) GetByID(_ context.Context, id string) (*entity.Comentario, error) {
	var out *entity.Comentario
	err := r.with(func(st *state) error {
		for _, c := range st.comentarios {
			if c.ID == id {
				c := c
				out = &c
			}
		}
		return nil
	})
	return out, err
}

func (r *comentarioRepo) ListByFactura(_ context.Context, facturaID string) ([]*entity.Comentario, error) {
	var out []*entity.Comentario
	err := r.with(func(st *state) error {
		for _, c := range st.comentarios {
			if c.FacturaID == facturaID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *comentarioRepo) Update(_ context.Context, c *entity.Comentario) error {
	return r.with(func(st *state) error {
		for i := range st.comentarios {
			if st.comentarios[i].ID == c.ID {
				st.comentarios[i].Contenido = c.Contenido
				st.comentarios[i].UpdatedAt = c.UpdatedAt
			}
		}
		return nil
	})
}

func (r *comentarioRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		for i, c := range st.comentarios {
			if c.ID == id {
				st.comentarios = append(st.comentarios[:i:i], st.comentarios[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ base }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.with(func(st *state) error {
		for _, x := range st.users {
			if strings.EqualFold(x.Email, u.Email) {
				return fmt.Errorf("%w: email %s", domain.ErrDuplicate, u.Email)
			}
		}
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) ListByArea(_ context.Context, areaID string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			if u.IsActive && u.BelongsToArea(areaID) {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// ── Catálogos ────────────────────────────────────────────────────────────────

type catalogRepo struct{ base }

func (r *catalogRepo) GetArea(_ context.Context, id string) (*entity.Area, error) {
	var out *entity.Area
	err := r.with(func(st *state) error {
		if a, ok := st.areas[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetAreaByCode(_ context.Context, code string) (*entity.Area, error) {
	var out *entity.Area
	err := r.with(func(st *state) error {
		for _, a := range st.areas {
			if a.Code == code {
				a := a
				out = &a
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) ListAreas(_ context.Context) ([]*entity.Area, error) {
	var out []*entity.Area
	err := r.with(func(st *state) error {
		for _, a := range st.areas {
			a := a
			out = append(out, &a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, err
}

func (r *catalogRepo) ListEstados(_ context.Context) ([]*entity.Estado, error) {
	var out []*entity.Estado
	err := r.with(func(st *state) error {
		for _, e := range st.estados {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetCentroCosto(_ context.Context, id string) (*entity.CentroCosto, error) {
	var out *entity.CentroCosto
	err := r.with(func(st *state) error {
		if c, ok := st.centrosCosto[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) ListCentrosCosto(_ context.Context) ([]*entity.CentroCosto, error) {
	var out []*entity.CentroCosto
	err := r.with(func(st *state) error {
		for _, c := range st.centrosCosto {
			if c.Activo {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, err
}

func (r *catalogRepo) GetCentroOperacion(_ context.Context, id string) (*entity.CentroOperacion, error) {
	var out *entity.CentroOperacion
	err := r.with(func(st *state) error {
		if c, ok := st.centrosOperacion[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) ListCentrosOperacion(_ context.Context, centroCostoID string) ([]*entity.CentroOperacion, error) {
	var out []*entity.CentroOperacion
	err := r.with(func(st *state) error {
		for _, c := range st.centrosOperacion {
			if c.Activo && (centroCostoID == "" || c.CentroCostoID == centroCostoID) {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, err
}

func (r *catalogRepo) CentroOwners(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	err := r.with(func(st *state) error {
		for _, id := range ids {
			if c, ok := st.centrosOperacion[id]; ok {
				out[id] = c.CentroCostoID
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetUnidadNegocio(_ context.Context, id string) (*entity.UnidadNegocio, error) {
	var out *entity.UnidadNegocio
	err := r.with(func(st *state) error {
		if u, ok := st.unidades[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) ListUnidadesNegocio(_ context.Context) ([]*entity.UnidadNegocio, error) {
	var out []*entity.UnidadNegocio
	err := r.with(func(st *state) error {
		for _, u := range st.unidades {
			if u.Activo {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, err
}

func (r *catalogRepo) GetCuentaAuxiliar(_ context.Context, id string) (*entity.CuentaAuxiliar, error) {
	var out *entity.CuentaAuxiliar
	err := r.with(func(st *state) error {
		if c, ok := st.cuentas[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) ListCuentasAuxiliares(_ context.Context) ([]*entity.CuentaAuxiliar, error) {
	var out []*entity.CuentaAuxiliar
	err := r.with(func(st *state) error {
		for _, c := range st.cuentas {
			if c.Activo {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, err
}
