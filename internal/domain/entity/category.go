package entity

import "time"

// Category representa una categoría de formaciones.
// El nombre es único sin distinguir mayúsculas; no se puede borrar mientras una Course la referencie.
type Category struct {
	ID        string // UUIDv7: estable y ordenado por creación
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64 // versión del documento en el store (escritura optimista)
}
