package mm

import (
	"fmt"

	"github.com/pkg/errors"
)

// PTE es una entrada de la tabla de páginas codificada en 32 bits:
//
//	bit 31      presente
//	bit 30      en swap
//	bit 28      sucia
//	bits 0-12   marco físico (si presente)
//	bits 5-25   slot de swap (si en swap)
//
// Una entrada en cero corresponde a una página nunca mapeada.
type PTE uint32

const (
	ptePresente PTE = 1 << 31
	pteSwap     PTE = 1 << 30
	pteSucia    PTE = 1 << 28

	mascaraMarco = 1<<13 - 1
	despSlot     = 5
	mascaraSlot  = 1<<21 - 1

	// MaxMarcos y MaxSlots son los tamaños máximos de pool que entran en una PTE
	MaxMarcos = mascaraMarco + 1
	MaxSlots  = mascaraSlot + 1
)

func pteEnMarco(marco int) PTE {
	return ptePresente | PTE(marco&mascaraMarco)
}

func pteEnSwap(slot int) PTE {
	return pteSwap | PTE(slot&mascaraSlot)<<despSlot
}

func (e PTE) Presente() bool { return e&ptePresente != 0 }
func (e PTE) EnSwap() bool   { return e&pteSwap != 0 && e&ptePresente == 0 }
func (e PTE) Sucia() bool    { return e&pteSucia != 0 }
func (e PTE) Vacia() bool    { return e == 0 }

// Marco devuelve el marco físico; sólo tiene sentido si la página está presente
func (e PTE) Marco() int { return int(e & mascaraMarco) }

// Slot devuelve el slot de swap; sólo tiene sentido si la página está en swap
func (e PTE) Slot() int { return int(e>>despSlot) & mascaraSlot }

func (e PTE) String() string {
	switch {
	case e.Presente():
		sucia := ""
		if e.Sucia() {
			sucia = " sucia"
		}
		return fmt.Sprintf("marco %d%s", e.Marco(), sucia)
	case e.EnSwap():
		return fmt.Sprintf("swap %d", e.Slot())
	default:
		return "vacía"
	}
}

// TablaPaginas es la tabla de un solo nivel, una entrada por número de página
type TablaPaginas struct {
	entradas []PTE
}

func nuevaTablaPaginas(cantidad int) *TablaPaginas {
	return &TablaPaginas{entradas: make([]PTE, cantidad)}
}

func (t *TablaPaginas) entrada(pgn int) (PTE, error) {
	if pgn < 0 || pgn >= len(t.entradas) {
		return 0, errors.Wrapf(ErrArgumentoInvalido, "página %d fuera de la tabla (%d entradas)", pgn, len(t.entradas))
	}
	return t.entradas[pgn], nil
}

func (t *TablaPaginas) fijar(pgn int, e PTE) {
	t.entradas[pgn] = e
}

func (t *TablaPaginas) marcar(pgn int, bits PTE) {
	t.entradas[pgn] |= bits
}

// presentes cuenta las entradas residentes en RAM
func (t *TablaPaginas) presentes() int {
	n := 0
	for _, e := range t.entradas {
		if e.Presente() {
			n++
		}
	}
	return n
}

func (t *TablaPaginas) limpiar() {
	clear(t.entradas)
}
