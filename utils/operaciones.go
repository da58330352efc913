package utils

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// AplicarRetardo aplica un retardo simulado y lo registra
func AplicarRetardo(operacion string, duracionMs int) {
	if duracionMs <= 0 {
		return
	}
	InfoLog.Debug("Aplicando retardo", "operación", operacion, "duración_ms", duracionMs)
	time.Sleep(time.Duration(duracionMs) * time.Millisecond)
}

// ExtraerEntero obtiene un campo numérico de los datos de un mensaje.
// encoding/json decodifica los números como float64.
func ExtraerEntero(msg *Mensaje, campo string) (int, error) {
	datosMap, ok := msg.Datos.(map[string]interface{})
	if !ok {
		return 0, errors.New("formato de datos incorrecto")
	}

	switch v := datosMap[campo].(type) {
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, errors.Errorf("campo %s no es un entero: %v", campo, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, errors.Errorf("campo %s no proporcionado", campo)
	default:
		return 0, errors.Errorf("campo %s con formato incorrecto: %T", campo, v)
	}
}

// ExtraerEnteros obtiene varios campos numéricos, en orden
func ExtraerEnteros(msg *Mensaje, campos ...string) ([]int, error) {
	valores := make([]int, len(campos))
	for i, campo := range campos {
		v, err := ExtraerEntero(msg, campo)
		if err != nil {
			return nil, err
		}
		valores[i] = v
	}
	return valores, nil
}
