// seed carga categorías iniciales y un administrador en el almacén PostgreSQL
// y muestra un token JWT de administrador para probar la API.
//
// Uso: go run ./cmd/seed [-latin1] [-admin email] categorias.txt
// El archivo trae una categoría por línea; las líneas vacías o que empiezan por # se ignoran.
// Con -latin1 el archivo se decodifica como ISO-8859-1 (exportaciones de hojas de cálculo).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/formaciones-api/internal/application/catalog"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/user"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/formaciones-api/pkg/config"
	"github.com/jhoicas/formaciones-api/pkg/jwt"
	"github.com/jhoicas/formaciones-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "decodificar el archivo como ISO-8859-1")
	adminEmail := flag.String("admin", "", "email del administrador a crear (opcional)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-admin email] categorias.txt")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fail("abrir archivo", err)
	}
	defer f.Close()
	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	names, err := readNames(r)
	if err != nil {
		fail("leer categorías", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fail("migración", err)
	}
	store := postgres.NewDocumentStore(pool)
	repos := docstore.NewRepositories(store)
	tx := docstore.NewTxRunner(store)

	catalogUC := catalog.NewUseCase(repos, tx)
	created, skipped := 0, 0
	for _, name := range names {
		_, err := catalogUC.Create(ctx, dto.CreateCategoryRequest{Name: name})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			fail("crear categoría "+name, err)
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("categorías cargadas")

	if *adminEmail == "" {
		return
	}
	userUC := user.NewUseCase(repos, tx, nil, log.Component("user"))
	in := dto.CreateUserRequest{Role: entity.RoleAdmin, FirstName: "Admin", LastName: "Formaciones", Email: *adminEmail}
	if err := dto.Validate(in); err != nil {
		fail("email de administrador", err)
	}
	admin, err := userUC.Create(ctx, in)
	if err != nil {
		fail("crear administrador", err)
	}
	if _, err := userUC.ChangeStatus(ctx, admin.ID, entity.UserStatusActive); err != nil {
		fail("activar administrador", err)
	}
	token, err := jwt.Generate(cfg.JWT.Secret, admin.ID, entity.RoleAdmin, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fail("generar token", err)
	}
	fmt.Printf("Administrador %s (%s)\nAuthorization: Bearer %s\n", admin.Email, admin.ID, token)
}

// readNames una categoría por línea, sin repetir (comparación sin mayúsculas).
func readNames(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		key := catalog.FoldName(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names, sc.Err()
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
