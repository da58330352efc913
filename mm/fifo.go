package mm

import "slices"

// colaFIFO guarda los números de página residentes, el más viejo primero.
// Su largo es siempre igual a la cantidad de PTEs presentes.
type colaFIFO struct {
	paginas []int
}

func (c *colaFIFO) encolar(pgn int) {
	c.paginas = append(c.paginas, pgn)
}

func (c *colaFIFO) primero() (int, bool) {
	if len(c.paginas) == 0 {
		return -1, false
	}
	return c.paginas[0], true
}

func (c *colaFIFO) desencolar() (int, bool) {
	pgn, ok := c.primero()
	if ok {
		c.paginas = c.paginas[1:]
	}
	return pgn, ok
}

func (c *colaFIFO) largo() int {
	return len(c.paginas)
}

func (c *colaFIFO) copia() []int {
	return slices.Clone(c.paginas)
}

func (c *colaFIFO) vaciar() {
	c.paginas = nil
}
