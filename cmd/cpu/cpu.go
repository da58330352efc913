package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// Resumen cuenta el resultado de las instrucciones de todos los hilos
type Resumen struct {
	Ejecutadas int64
	Rechazadas int64
}

type cpu struct {
	memoria Memoria
	pid     int

	ejecutadas atomic.Int64
	rechazadas atomic.Int64
}

func nuevaCPU(m Memoria, pid int) *cpu {
	return &cpu{memoria: m, pid: pid}
}

// ejecutar corre cada script en su propio hilo, con a lo sumo maxHilos a la
// vez, todos contra el mismo proceso. Un rechazo de la Memoria se registra y el
// script sigue; una falla de transporte corta todos los hilos.
func (c *cpu) ejecutar(ctx context.Context, scripts [][]Instruccion, maxHilos int) (Resumen, error) {
	g, ctx := errgroup.WithContext(ctx)
	if maxHilos > 0 {
		g.SetLimit(maxHilos)
	}

	for hilo, script := range scripts {
		hilo, script := hilo, script
		g.Go(func() error {
			return c.ejecutarScript(ctx, hilo, script)
		})
	}

	err := g.Wait()
	return Resumen{Ejecutadas: c.ejecutadas.Load(), Rechazadas: c.rechazadas.Load()}, err
}

func (c *cpu) ejecutarScript(ctx context.Context, hilo int, script []Instruccion) error {
	for _, instruccion := range script {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.ejecutarInstruccion(hilo, instruccion)
		var rechazo *ErrorMemoria
		switch {
		case err == nil:
			c.ejecutadas.Inc()
		case errors.As(err, &rechazo):
			c.rechazadas.Inc()
			utils.ErrorLog.Error("Instrucción rechazada",
				"pid", c.pid, "hilo", hilo, "linea", instruccion.Linea,
				"instruccion", instruccion.String(), "codigo", rechazo.Codigo)
		default:
			return errors.Wrapf(err, "hilo %d, línea %d", hilo, instruccion.Linea)
		}
	}
	return nil
}

func (c *cpu) ejecutarInstruccion(hilo int, i Instruccion) error {
	utils.InfoLog.Info("Ejecutando", "pid", c.pid, "hilo", hilo, "instruccion", i.String())

	switch i.Operacion {
	case OpAlloc:
		dir, err := c.memoria.Asignar(c.pid, i.Args[0], i.Args[1])
		if err != nil {
			return err
		}
		utils.InfoLog.Info("Región asignada", "pid", c.pid, "hilo", hilo, "rgid", i.Args[0], "direccion", dir)
	case OpFree:
		return c.memoria.Liberar(c.pid, i.Args[0])
	case OpRead:
		valor, err := c.memoria.Leer(c.pid, i.Args[0], i.Args[1])
		if err != nil {
			return err
		}
		utils.InfoLog.Info("Lectura", "pid", c.pid, "hilo", hilo, "rgid", i.Args[0], "offset", i.Args[1], "valor", valor)
	case OpWrite:
		if i.Args[2] < 0 || i.Args[2] > 255 {
			return &ErrorMemoria{Codigo: "ARGUMENTO_INVALIDO", Mensaje: "el valor no entra en un byte"}
		}
		return c.memoria.Escribir(c.pid, i.Args[0], i.Args[1], byte(i.Args[2]))
	default:
		return errors.Errorf("instrucción desconocida %s", i.Operacion)
	}
	return nil
}
