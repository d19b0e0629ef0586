// migrations содержит SQL-миграции схемы, встроенные в бинарь.
// Применяются через goose (см. storage/postgres.Migrate).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
