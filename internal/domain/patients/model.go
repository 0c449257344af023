package patients

import (
	"regexp"
	"strings"
	"time"
)

// Patient es la persona cuyas tomas se registran.
// OwnerUserID es la cuenta que la administra (el propio paciente o un cuidador).
type Patient struct {
	ID          string
	OwnerUserID string

	Name string

	CreatedAt time.Time
	UpdatedAt time.Time
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName convierte el nombre en un prefijo de archivo sin separadores de ruta.
// "Ana María" => "Ana_Mar_a"; vacío => "patient".
func FileName(name string) string {
	out := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if out == "" {
		return "patient"
	}
	return out
}
