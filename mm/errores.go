package mm

import "github.com/pkg/errors"

// Clases de error de la biblioteca de memoria. Se devuelven siempre envueltas
// con contexto; para clasificarlas se usa errors.Is.
var (
	ErrArgumentoInvalido = errors.New("argumento inválido")
	ErrSinEspacio        = errors.New("sin espacio")
	ErrRegionInvalida    = errors.New("región inválida")
	ErrSinVictima        = errors.New("no hay página víctima disponible")
	ErrFalloIO           = errors.New("fallo de entrada/salida")
)

// Clase devuelve el nombre corto de la clase de error, o "" si err no pertenece
// a ninguna.
func Clase(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrArgumentoInvalido):
		return "ARGUMENTO_INVALIDO"
	case errors.Is(err, ErrSinEspacio):
		return "SIN_ESPACIO"
	case errors.Is(err, ErrRegionInvalida):
		return "REGION_INVALIDA"
	case errors.Is(err, ErrSinVictima):
		return "SIN_VICTIMA"
	case errors.Is(err, ErrFalloIO):
		return "FALLO_IO"
	default:
		return ""
	}
}
