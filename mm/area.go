package mm

// AreaMemoria es un área virtual contigua (VMA) con su propia lista libre.
// [Inicio, Fin) es lo que ya se le pidió al administrador del espacio de
// direcciones; Break marca el tope del heap efectivamente entregado.
type AreaMemoria struct {
	ID     int
	Inicio int
	Fin    int
	Break  int
	libres listaLibre
}

func nuevaArea(id, inicio int) *AreaMemoria {
	return &AreaMemoria{
		ID:     id,
		Inicio: inicio,
		Fin:    inicio,
		Break:  inicio,
	}
}
