package mm

// Direccion indica hacia dónde se copia un marco en un intercambio de swap
type Direccion int

const (
	// HaciaSwap copia el marco de RAM origen al slot de swap destino
	HaciaSwap Direccion = iota
	// DesdeSwap copia el slot de swap origen al marco de RAM destino
	DesdeSwap
)

func (d Direccion) String() string {
	if d == HaciaSwap {
		return "RAM->SWAP"
	}
	return "SWAP->RAM"
}

// Despachador es el despachador de syscalls externo. Cada pedido es sincrónico:
// bloquea hasta que vuelve un estado.
type Despachador interface {
	// ExtenderHeap pide que el área vmaID crezca inc bytes
	ExtenderHeap(p *Proceso, vmaID, inc int) error
	// IntercambiarSwap copia un marco entre la RAM y el swap
	IntercambiarSwap(p *Proceso, origen, destino int, dir Direccion) error
	// LeerFisica lee un byte de la RAM
	LeerFisica(p *Proceso, dir int) (byte, error)
	// EscribirFisica escribe un byte en la RAM
	EscribirFisica(p *Proceso, dir int, valor byte) error
}

// Pool es un dispositivo de marcos (RAM o swap) compartido entre procesos.
// Las implementaciones se sincronizan solas.
type Pool interface {
	ObtenerMarcoLibre() (int, error)
	DevolverMarco(marco int) error
	CantidadMarcos() int
}
