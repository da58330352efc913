package mm

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// Evento identifica la operación que se está observando
type Evento string

const (
	EventoAsignacion Evento = "ASIGNAR"
	EventoLiberacion Evento = "LIBERAR"
	EventoEscritura  Evento = "ESCRIBIR"
)

// Observacion es lo que recibe un Observador al terminar una operación
type Observacion struct {
	Evento    Evento
	PID       int
	Proceso   *Proceso
	Region    int
	Direccion int
	Tamanio   int
	Offset    int
	Valor     byte
	Err       error
}

// Observador recibe cada asignación, liberación y escritura de un proceso.
// Se llama sin el lock del MM tomado y no puede alterar el resultado.
type Observador interface {
	Observar(o Observacion)
}

func (p *Proceso) notificar(o Observacion) {
	if p == nil || p.Observador == nil {
		return
	}
	o.PID = p.PID
	o.Proceso = p
	p.Observador.Observar(o)
}

// Volcador escribe en w un renglón por operación y, opcionalmente, la tabla
// de páginas del proceso después de cada una.
type Volcador struct {
	mu       sync.Mutex
	w        io.Writer
	conTabla bool
}

func NuevoVolcador(w io.Writer, conTabla bool) *Volcador {
	return &Volcador{w: w, conTabla: conTabla}
}

func (v *Volcador) Observar(o Observacion) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch o.Evento {
	case EventoAsignacion:
		fmt.Fprintf(v.w, "===== PID %d - ASIGNAR region=%d tam=%s", o.PID, o.Region, humanize.Bytes(uint64(max(o.Tamanio, 0))))
		if o.Err == nil {
			fmt.Fprintf(v.w, " dir=%d", o.Direccion)
		}
	case EventoLiberacion:
		fmt.Fprintf(v.w, "===== PID %d - LIBERAR region=%d", o.PID, o.Region)
	case EventoEscritura:
		fmt.Fprintf(v.w, "===== PID %d - ESCRIBIR region=%d offset=%d valor=%d", o.PID, o.Region, o.Offset, o.Valor)
	default:
		fmt.Fprintf(v.w, "===== PID %d - %s", o.PID, o.Evento)
	}
	if o.Err != nil {
		fmt.Fprintf(v.w, " error=%s", Clase(o.Err))
	}
	fmt.Fprintln(v.w)

	if v.conTabla && o.Proceso != nil && o.Proceso.MM != nil {
		EscribirTabla(v.w, o.Proceso.MM.Instantanea(), o.Proceso.MM.Config())
	}
}

// EscribirTabla imprime las entradas no vacías de la tabla de páginas
func EscribirTabla(w io.Writer, inst Instantanea, cfg Config) {
	fin := 0
	for _, a := range inst.Areas {
		fin = max(fin, a.Fin)
	}
	fmt.Fprintf(w, "tabla de páginas: 0 - %d (%s)\n", fin, humanize.Bytes(uint64(fin)))
	for _, e := range inst.Tabla {
		fmt.Fprintf(w, "%08d: %08x %s\n", e.Pagina*cfg.TamPagina, uint32(e.PTE), e.PTE)
	}
	fmt.Fprintf(w, "cola FIFO: %v\n", inst.FIFO)
}
