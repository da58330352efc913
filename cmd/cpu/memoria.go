package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

// ErrorMemoria es un rechazo de la Memoria a una operación válida en el
// protocolo, por ejemplo una región inválida. No corta la ejecución del script.
type ErrorMemoria struct {
	Codigo  string
	Mensaje string
}

func (e *ErrorMemoria) Error() string {
	return fmt.Sprintf("%s: %s", e.Codigo, e.Mensaje)
}

// Memoria es lo que la CPU necesita del módulo Memoria
type Memoria interface {
	InicializarProceso(pid int) error
	FinalizarProceso(pid int) error
	Asignar(pid, rgid, tam int) (int, error)
	Liberar(pid, rgid int) error
	Leer(pid, rgid, offset int) (byte, error)
	Escribir(pid, rgid, offset int, valor byte) error
}

type clienteMemoria struct {
	http *utils.HTTPClient
}

func nuevoClienteMemoria(c *utils.HTTPClient) *clienteMemoria {
	return &clienteMemoria{http: c}
}

// enviar manda el mensaje y separa las fallas de transporte de los rechazos
func (c *clienteMemoria) enviar(tipo int, datos map[string]interface{}) (map[string]interface{}, error) {
	respuesta, err := c.http.EnviarHTTPMensaje(tipo, "default", datos)
	if err != nil {
		return nil, err
	}

	respuestaMap, ok := respuesta.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("formato de respuesta incorrecto: %v", respuesta)
	}

	if respuestaMap["status"] != "OK" {
		codigo, _ := respuestaMap["codigo"].(string)
		mensaje, _ := respuestaMap["error"].(string)
		if codigo == "" {
			codigo = "ERROR"
		}
		return nil, &ErrorMemoria{Codigo: codigo, Mensaje: mensaje}
	}
	return respuestaMap, nil
}

func (c *clienteMemoria) InicializarProceso(pid int) error {
	_, err := c.enviar(utils.MensajeInicializarProceso, map[string]interface{}{"pid": pid})
	return err
}

func (c *clienteMemoria) FinalizarProceso(pid int) error {
	_, err := c.enviar(utils.MensajeFinalizarProceso, map[string]interface{}{"pid": pid})
	return err
}

func (c *clienteMemoria) Asignar(pid, rgid, tam int) (int, error) {
	r, err := c.enviar(utils.MensajeAsignar, map[string]interface{}{"pid": pid, "rgid": rgid, "tam": tam})
	if err != nil {
		return -1, err
	}
	dir, ok := r["direccion"].(float64)
	if !ok {
		return -1, errors.Errorf("respuesta sin dirección: %v", r)
	}
	return int(dir), nil
}

func (c *clienteMemoria) Liberar(pid, rgid int) error {
	_, err := c.enviar(utils.MensajeLiberar, map[string]interface{}{"pid": pid, "rgid": rgid})
	return err
}

func (c *clienteMemoria) Leer(pid, rgid, offset int) (byte, error) {
	r, err := c.enviar(utils.MensajeLeer, map[string]interface{}{"pid": pid, "rgid": rgid, "offset": offset})
	if err != nil {
		return 0, err
	}
	valor, ok := r["valor"].(float64)
	if !ok {
		return 0, errors.Errorf("respuesta sin valor: %v", r)
	}
	return byte(valor), nil
}

func (c *clienteMemoria) Escribir(pid, rgid, offset int, valor byte) error {
	_, err := c.enviar(utils.MensajeEscribir, map[string]interface{}{"pid": pid, "rgid": rgid, "offset": offset, "valor": int(valor)})
	return err
}

// conectarConReintentos hace el handshake con la Memoria hasta que responda o
// se cancele ctx
func conectarConReintentos(ctx context.Context, c *utils.HTTPClient, espera time.Duration) error {
	utils.InfoLog.Info("Iniciando conexión", "destino", "Memoria")

	for i := 1; ; i++ {
		err := c.VerificarConexion()
		if err == nil {
			_, err = c.EnviarHTTPMensaje(utils.MensajeHandshake, "default", map[string]interface{}{"nombre": "CPU"})
		}
		if err == nil {
			utils.InfoLog.Info("Conexión establecida", "destino", "Memoria")
			return nil
		}

		utils.InfoLog.Warn("Reintentando conexión",
			"destino", "Memoria",
			"intento", i,
			"próximo_en", espera.String(),
			"error", err)

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "sin conexión con la Memoria")
		case <-time.After(espera):
		}
	}
}
