package mm

import (
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// Proceso es la vista que la biblioteca necesita de un proceso: su objeto de
// memoria, los dispositivos de marcos que usa y el despachador de syscalls.
type Proceso struct {
	PID         int
	MM          *MM
	RAM         Pool
	Swap        Pool
	Despachador Despachador

	// Opcionales
	Observador Observador
	Metricas   *Metricas
}

// NuevoProceso arma un proceso con un MM nuevo según cfg
func NuevoProceso(pid int, cfg Config, ram, swap Pool, d Despachador) (*Proceso, error) {
	if ram == nil || swap == nil || d == nil {
		return nil, errors.Wrap(ErrArgumentoInvalido, "el proceso necesita RAM, swap y despachador")
	}
	if ram.CantidadMarcos() > MaxMarcos {
		return nil, errors.Wrapf(ErrArgumentoInvalido, "la RAM tiene %d marcos, una PTE admite %d", ram.CantidadMarcos(), MaxMarcos)
	}
	if swap.CantidadMarcos() > MaxSlots {
		return nil, errors.Wrapf(ErrArgumentoInvalido, "el swap tiene %d slots, una PTE admite %d", swap.CantidadMarcos(), MaxSlots)
	}

	mm, err := NuevoMM(cfg)
	if err != nil {
		return nil, err
	}

	utils.InfoLog.Info("Espacio de direcciones creado",
		"pid", pid,
		"tam_pagina", cfg.TamPagina,
		"max_paginas", cfg.MaxPaginas,
		"max_simbolos", cfg.MaxSimbolos)

	return &Proceso{
		PID:         pid,
		MM:          mm,
		RAM:         ram,
		Swap:        swap,
		Despachador: d,
	}, nil
}

func (p *Proceso) validar() error {
	if p == nil || p.MM == nil {
		return errors.Wrap(ErrArgumentoInvalido, "proceso sin objeto de memoria")
	}
	return nil
}
