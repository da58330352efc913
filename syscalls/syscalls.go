// Package syscalls implementa el despachador de llamadas al sistema que usa la
// biblioteca de memoria: la syscall memmap y sus operaciones para crecer el
// heap, intercambiar marcos con el swap y acceder byte a byte a la RAM.
package syscalls

import (
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/memfisica"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// SysMemmap es el número de la syscall de memoria
const SysMemmap = 17

// Operaciones de memmap, viajan en A1
const (
	OpIncrementar = 2 // A2 área, A3 incremento en bytes
	OpSwap        = 3 // A2 origen, A3 destino, A4 dirección (mm.Direccion)
	OpLeer        = 4 // A2 dirección física; el byte leído vuelve en A3
	OpEscribir    = 5 // A2 dirección física, A3 valor
)

var (
	ErrSyscallDesconocida   = errors.New("syscall desconocida")
	ErrOperacionDesconocida = errors.New("operación de memmap desconocida")
)

// Registros son los argumentos de una syscall. Algunas operaciones devuelven
// resultados en ellos.
type Registros struct {
	A1, A2, A3, A4 int
}

// Handler atiende una syscall para el proceso p
type Handler func(p *mm.Proceso, regs *Registros) error

// Tabla asocia números de syscall con su handler. Los dispositivos de marcos
// son los mismos que usan los procesos que la invocan.
type Tabla struct {
	mu       sync.RWMutex
	handlers map[int]Handler

	ram  *memfisica.Memoria
	swap *memfisica.Memoria

	// Retardos simulados en milisegundos
	RetardoMemoria int
	RetardoSwap    int

	invocaciones *prometheus.CounterVec
}

// NuevaTabla crea la tabla con memmap ya registrada
func NuevaTabla(ram, swap *memfisica.Memoria) *Tabla {
	t := &Tabla{
		handlers: make(map[int]Handler),
		ram:      ram,
		swap:     swap,
	}
	t.Registrar(SysMemmap, t.memmap)
	return t
}

// RegistrarMetricas cuenta cada invocación en reg
func (t *Tabla) RegistrarMetricas(reg prometheus.Registerer) {
	t.invocaciones = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_syscalls_total",
		Help: "Syscalls atendidas por número y resultado.",
	}, []string{"nro", "resultado"})
}

// Registrar agrega o reemplaza el handler de una syscall
func (t *Tabla) Registrar(nro int, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[nro] = h
}

// Invocar ejecuta la syscall nro de forma sincrónica
func (t *Tabla) Invocar(p *mm.Proceso, nro int, regs *Registros) error {
	t.mu.RLock()
	h, existe := t.handlers[nro]
	t.mu.RUnlock()

	var err error
	if !existe {
		err = errors.Wrapf(ErrSyscallDesconocida, "número %d", nro)
	} else {
		err = h(p, regs)
	}

	if t.invocaciones != nil {
		resultado := "ok"
		if err != nil {
			resultado = "error"
		}
		t.invocaciones.WithLabelValues(strconv.Itoa(nro), resultado).Inc()
	}
	return err
}

func (t *Tabla) memmap(p *mm.Proceso, regs *Registros) error {
	if p == nil || p.MM == nil {
		return errors.Wrap(mm.ErrArgumentoInvalido, "memmap sin proceso")
	}

	switch regs.A1 {
	case OpIncrementar:
		utils.AplicarRetardo("memmap_inc", t.RetardoMemoria)
		r, err := p.MM.ExtenderArea(regs.A2, regs.A3, p.RAM, p.Swap)
		if err != nil {
			return errors.Wrapf(err, "pid %d: extendiendo el área %d", p.PID, regs.A2)
		}
		utils.InfoLog.Info("Heap extendido", "pid", p.PID, "area", regs.A2, "inicio", r.Inicio, "fin", r.Fin)
		return nil

	case OpSwap:
		utils.AplicarRetardo("memmap_swap", t.RetardoSwap)
		dir := mm.Direccion(regs.A4)
		origen, destino := t.ram, t.swap
		if dir == mm.DesdeSwap {
			origen, destino = t.swap, t.ram
		}
		if err := memfisica.CopiarMarco(origen, regs.A2, destino, regs.A3); err != nil {
			return errors.Wrapf(err, "pid %d: %s %d -> %d", p.PID, dir, regs.A2, regs.A3)
		}
		utils.InfoLog.Debug("Intercambio de swap", "pid", p.PID, "direccion", dir.String(), "origen", regs.A2, "destino", regs.A3)
		return nil

	case OpLeer:
		utils.AplicarRetardo("memmap_leer", t.RetardoMemoria)
		valor, err := t.ram.Leer(regs.A2)
		if err != nil {
			return errors.Wrapf(err, "pid %d", p.PID)
		}
		regs.A3 = int(valor)
		return nil

	case OpEscribir:
		utils.AplicarRetardo("memmap_escribir", t.RetardoMemoria)
		if err := t.ram.Escribir(regs.A2, byte(regs.A3)); err != nil {
			return errors.Wrapf(err, "pid %d", p.PID)
		}
		return nil

	default:
		return errors.Wrapf(ErrOperacionDesconocida, "%d", regs.A1)
	}
}
