package mm

import "fmt"

// Region es un rango semiabierto [Inicio, Fin) dentro de un área
type Region struct {
	Inicio int `json:"inicio"`
	Fin    int `json:"fin"`
}

// Tamanio devuelve la cantidad de bytes del rango
func (r Region) Tamanio() int {
	return r.Fin - r.Inicio
}

func (r Region) valida() bool {
	return r.Inicio >= 0 && r.Fin > r.Inicio
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)", r.Inicio, r.Fin)
}

// ranura es una entrada de la tabla de símbolos. Una ranura inactiva no
// referencia ninguna región.
type ranura struct {
	region Region
	area   int
	activa bool
}
