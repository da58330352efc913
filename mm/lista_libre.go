package mm

import "slices"

// listaLibre guarda los rangos libres de un área. regiones[0] es la cabeza:
// el último rango devuelto. Los rangos vecinos nunca se fusionan.
type listaLibre struct {
	regiones []Region
}

func (l *listaLibre) encolar(r Region) {
	l.regiones = slices.Insert(l.regiones, 0, r)
}

// primerAjuste recorre la lista una sola vez y toma el primer rango de al
// menos tam bytes. Si el rango coincide exacto se desengancha; si sobra, se
// achica desde el frente y se devuelve el prefijo.
func (l *listaLibre) primerAjuste(tam int) (Region, bool) {
	if tam <= 0 {
		return Region{}, false
	}
	for i, libre := range l.regiones {
		if libre.Tamanio() < tam {
			continue
		}

		tomada := Region{Inicio: libre.Inicio, Fin: libre.Inicio + tam}
		if libre.Tamanio() == tam {
			l.regiones = slices.Delete(l.regiones, i, i+1)
		} else {
			l.regiones[i].Inicio += tam
		}
		return tomada, true
	}
	return Region{}, false
}

// total suma los bytes libres de la lista
func (l *listaLibre) total() int {
	suma := 0
	for _, r := range l.regiones {
		suma += r.Tamanio()
	}
	return suma
}

func (l *listaLibre) copia() []Region {
	return slices.Clone(l.regiones)
}
