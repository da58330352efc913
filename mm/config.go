package mm

import (
	"math/bits"

	"github.com/pkg/errors"
)

const (
	TamPaginaPorDefecto   = 256
	MaxPaginasPorDefecto  = 1 << 14
	MaxSimbolosPorDefecto = 30
)

// Config define la geometría del espacio de direcciones de cada proceso
type Config struct {
	TamPagina   int // potencia de dos
	MaxPaginas  int // entradas de la tabla de páginas
	MaxSimbolos int // capacidad de la tabla de símbolos

	// ReclamarSlotSwap devuelve al pool de swap el slot del que se trajo una
	// página. Apagado, ese slot queda tomado y no vuelve al pool ni siquiera al
	// liberar el proceso.
	ReclamarSlotSwap bool
}

// ConfigPorDefecto devuelve la geometría clásica del simulador
func ConfigPorDefecto() Config {
	return Config{
		TamPagina:   TamPaginaPorDefecto,
		MaxPaginas:  MaxPaginasPorDefecto,
		MaxSimbolos: MaxSimbolosPorDefecto,
	}
}

// Validar controla que la configuración sea utilizable
func (c Config) Validar() error {
	if c.TamPagina <= 0 || bits.OnesCount(uint(c.TamPagina)) != 1 {
		return errors.Wrapf(ErrArgumentoInvalido, "tamaño de página %d no es potencia de dos", c.TamPagina)
	}
	if c.MaxPaginas <= 0 {
		return errors.Wrapf(ErrArgumentoInvalido, "cantidad de páginas %d", c.MaxPaginas)
	}
	if c.MaxSimbolos <= 0 {
		return errors.Wrapf(ErrArgumentoInvalido, "capacidad de tabla de símbolos %d", c.MaxSimbolos)
	}
	return nil
}

// desplazamiento es la cantidad de bits de offset dentro de una página
func (c Config) desplazamiento() int {
	return bits.TrailingZeros(uint(c.TamPagina))
}

// alinear redondea tam hacia arriba al múltiplo de página. tam no puede
// superar TamanioEspacio.
func (c Config) alinear(tam int) int {
	return (tam + c.TamPagina - 1) &^ (c.TamPagina - 1)
}

// TamanioEspacio devuelve el tope del espacio de direcciones virtual en bytes
func (c Config) TamanioEspacio() int {
	return c.MaxPaginas * c.TamPagina
}
